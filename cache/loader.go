package cache

import "time"

// GetWithLoader returns the cached value of key or loads, stores and returns it. Concurrent
// loads of one key share a single loader call. Loader errors are returned as is and nothing
// is stored.
func (c *Cache[V]) GetWithLoader(key string, loader func(string) (V, error)) (V, error) {
	return c.getWithLoader(key, loader, nil)
}

// GetWithLoaderAndTTL is GetWithLoader storing the loaded value with ttl.
func (c *Cache[V]) GetWithLoaderAndTTL(key string, loader func(string) (V, error), ttl time.Duration) (V, error) {
	return c.getWithLoader(key, loader, &ttl)
}

func (c *Cache[V]) getWithLoader(key string, loader func(string) (V, error), ttl *time.Duration) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	res, err, _ := c.loads.Do(key, func() (interface{}, error) {
		v, err := loader(key)
		if err != nil {
			return nil, err
		}
		c.set(key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	v, _ := res.(V)
	return v, nil
}
