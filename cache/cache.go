package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dlshle/nscache/errors"
	"github.com/dlshle/nscache/logging"
	"github.com/dlshle/nscache/notification"
	"github.com/dlshle/nscache/storage"
	"github.com/dlshle/nscache/timer"
)

// Cache is a namespace scoped key-value cache. Every operation is atomic with respect to
// other operations of the same instance. Instances sharing an in-memory record also take
// its record lock; over a copying storage two instances on one namespace read and write
// the record independently and may lose each other's updates.
type Cache[V any] struct {
	namespace string
	key       string
	cfg       *config
	storage   storage.Storage[V]
	logger    logging.Logger
	recorder  Recorder
	ctx       context.Context

	mu         sync.Mutex
	recordLock sync.Locker
	events notification.WRNotificationEmitter[Event[V]]
	loads  singleflight.Group

	sweepMu sync.Mutex
	sweeper timer.Timer
}

// Item is a single MSet write. A nil TTL uses the standard TTL.
type Item[V any] struct {
	Key   string
	Value V
	TTL   *time.Duration
}

// New creates a cache on namespace ("default" when empty) and runs the first sweep pass.
func New[V any](namespace string, opts ...Option) (*Cache[V], error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, errors.Errorf("invalid cache options: %w", err)
	}
	var s storage.Storage[V]
	switch typed := cfg.storage.(type) {
	case nil:
		s = storage.NewMemoryStorage[V](cfg.registry, namespace)
	case storage.Storage[V]:
		s = typed
	default:
		var zero V
		return nil, errors.Errorf("storage %T can not hold values of type %s", typed, typeName(zero))
	}
	c := &Cache[V]{
		namespace: namespace,
		key:       cfg.prefix + namespace,
		cfg:       cfg,
		storage:   s,
		logger:    cfg.logger,
		recorder:  cfg.recorder,
		ctx:       logging.WrapCtx(context.Background(), "namespace", namespace),
		events:    notification.New[Event[V]](cfg.maxListeners),
	}
	if locker, ok := s.(storage.Locker); ok {
		c.recordLock = locker.RecordLock(c.key)
	}
	c.StartSweep()
	return c, nil
}

func typeName(v any) string {
	if v == nil {
		return "interface"
	}
	return fmt.Sprintf("%T", v)
}

func (c *Cache[V]) Namespace() string {
	return c.namespace
}

func (c *Cache[V]) recordLookup(hit bool) {
	if hit {
		c.recorder.Hit(c.namespace)
	} else {
		c.recorder.Miss(c.namespace)
	}
}

func (c *Cache[V]) Get(key string) (value V, ok bool) {
	c.do(func(o *op[V]) {
		var e storage.Entry[V]
		if e, ok = o.lookup(key); ok {
			value = e.Value
		}
	})
	c.recordLookup(ok)
	return
}

// MGet returns the valid values among keys; missing and expired keys are left out.
func (c *Cache[V]) MGet(keys []string) map[string]V {
	res := make(map[string]V)
	if len(keys) == 0 {
		return res
	}
	c.do(func(o *op[V]) {
		for _, k := range keys {
			e, ok := o.lookup(k)
			c.recordLookup(ok)
			if ok {
				res[k] = e.Value
			}
		}
	})
	return res
}

func (c *Cache[V]) GetAll() map[string]V {
	res := make(map[string]V)
	c.do(func(o *op[V]) {
		for _, k := range o.table.Keys() {
			if e, ok := o.lookup(k); ok {
				res[k] = e.Value
			}
		}
	})
	return res
}

// Set stores value with the standard TTL. It returns false when the capacity bound refuses
// a new key.
func (c *Cache[V]) Set(key string, value V) bool {
	return c.set(key, value, nil)
}

// SetWithTTL stores value expiring ttl from now; 0 means it never expires.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) bool {
	return c.set(key, value, &ttl)
}

func (c *Cache[V]) set(key string, value V, ttl *time.Duration) (ok bool) {
	c.do(func(o *op[V]) {
		ok = o.set(key, value, ttl)
	})
	return
}

// MSet writes every item, even after a refused one, and reports whether all were stored.
func (c *Cache[V]) MSet(items []Item[V]) bool {
	ok := true
	c.do(func(o *op[V]) {
		for _, item := range items {
			if !o.set(item.Key, item.Value, item.TTL) {
				ok = false
			}
		}
	})
	return ok
}

// Del removes keys whether or not they expired and returns how many were present.
func (c *Cache[V]) Del(keys ...string) (count int) {
	if len(keys) == 0 {
		return 0
	}
	c.do(func(o *op[V]) {
		for _, k := range keys {
			if o.remove(k) {
				count++
			}
		}
	})
	return
}

// Clear deletes the namespace record in one step; no per key events are emitted.
func (c *Cache[V]) Clear() {
	defer c.lock()()
	c.drop()
}

// Keys returns the valid keys in insertion order.
func (c *Cache[V]) Keys() (keys []string) {
	c.do(func(o *op[V]) {
		keys = o.validKeys()
	})
	return
}

// Len counts valid entries, purging expired ones like Keys.
func (c *Cache[V]) Len() int {
	return len(c.Keys())
}

func (c *Cache[V]) Has(key string) (ok bool) {
	c.do(func(o *op[V]) {
		_, ok = o.lookup(key)
	})
	return
}

// Take returns the value of key and removes it in the same operation.
func (c *Cache[V]) Take(key string) (value V, ok bool) {
	c.do(func(o *op[V]) {
		var e storage.Entry[V]
		if e, ok = o.lookup(key); ok {
			value = e.Value
			o.remove(key)
		}
	})
	c.recordLookup(ok)
	return
}

// TTL restarts the lifetime of a valid key with ttl from now; 0 makes it permanent. No
// event is emitted.
func (c *Cache[V]) TTL(key string, ttl time.Duration) (ok bool) {
	c.do(func(o *op[V]) {
		var e storage.Entry[V]
		if e, ok = o.lookup(key); !ok {
			return
		}
		e.ExpiresAt = computeExpiry(o.now, &ttl, c.cfg.stdTTL)
		e.LastModified = o.now
		o.table.Put(key, e)
		o.dirty = true
	})
	return
}

// GetTTL returns the expiry instant of a valid key, the zero time when it never expires.
func (c *Cache[V]) GetTTL(key string) (expiresAt time.Time, ok bool) {
	c.do(func(o *op[V]) {
		var e storage.Entry[V]
		if e, ok = o.lookup(key); ok {
			expiresAt = fromMillis(e.ExpiresAt)
		}
	})
	return
}

func (c *Cache[V]) GetLastModified(key string) (modified time.Time, ok bool) {
	c.do(func(o *op[V]) {
		var e storage.Entry[V]
		if e, ok = o.lookup(key); ok {
			modified = time.UnixMilli(e.LastModified)
		}
	})
	return
}
