// Package cache provides a namespace scoped key-value cache with per entry TTL, optional
// capacity bounds with a limited or replaced eviction strategy, set/del/expired events and a
// periodic expiry sweeper. Entries of a namespace live in one storage.Table record persisted
// through a storage.Storage, so several caches on the same namespace and storage see each
// other's writes.
//
// Example usage:
//
//	// in-memory cache with a default TTL
//	c, err := cache.New[string]("sessions", cache.WithStdTTL(time.Minute))
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	c.Set("token", "abc")
//	if v, ok := c.Get("token"); ok {
//		fmt.Println("value:", v)
//	}
//
//	// bounded cache replacing the entries closest to expiry
//	bounded, _ := cache.New[int]("counters",
//		cache.WithMax(100),
//		cache.WithMaxStrategy(cache.StrategyReplaced),
//		cache.WithCheckPeriod(10*time.Second))
//	bounded.On(cache.EventExpired, func(e cache.Event[int]) {
//		fmt.Println("expired:", e.Key)
//	})
//
//	// persistent cache over badger
//	backend, _ := storage.NewBadgerBackend("./data")
//	persistent, _ := cache.New[string]("docs",
//		cache.WithStorage[string](storage.NewCodecStorage[string](backend, nil)))
package cache
