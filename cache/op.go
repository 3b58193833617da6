package cache

import (
	"context"
	"time"

	"github.com/dlshle/nscache/errors"
	"github.com/dlshle/nscache/storage"
)

// op is one logical cache operation over a snapshot of the namespace table. Events are
// buffered and dispatched by do once the instance lock is released.
type op[V any] struct {
	c      *Cache[V]
	ctx    context.Context
	now    int64
	table  *storage.Table[V]
	dirty  bool
	events []Event[V]
}

func (c *Cache[V]) do(fn func(o *op[V])) {
	var events []Event[V]
	func() {
		defer c.lock()()
		o := &op[V]{
			c:     c,
			ctx:   c.ctx,
			now:   toMillis(c.cfg.clock()),
			table: c.load(),
		}
		fn(o)
		if o.dirty {
			c.persist(o.table)
		}
		events = o.events
	}()
	c.dispatch(events)
}

// lock takes the instance mutex, then the shared record lock if the storage has one. It
// returns the matching unlock.
func (c *Cache[V]) lock() func() {
	c.mu.Lock()
	if c.recordLock == nil {
		return c.mu.Unlock
	}
	c.recordLock.Lock()
	return func() {
		c.recordLock.Unlock()
		c.mu.Unlock()
	}
}

func (o *op[V]) emit(kind EventKind, key string, value V) {
	o.events = append(o.events, Event[V]{Kind: kind, Key: key, Value: value})
}

// lookup returns the entry of key if it is present and valid. A present but expired entry is
// removed as a side effect.
func (o *op[V]) lookup(key string) (storage.Entry[V], bool) {
	e, ok := o.table.Get(key)
	if !ok {
		return e, false
	}
	if isValid(e, o.now) {
		return e, true
	}
	o.table.Delete(key)
	o.dirty = true
	o.emit(EventDel, key, e.Value)
	o.emit(EventExpired, key, e.Value)
	o.c.recorder.Expire(o.c.namespace)
	return storage.Entry[V]{}, false
}

func (o *op[V]) remove(key string) bool {
	e, ok := o.table.Delete(key)
	if !ok {
		return false
	}
	o.dirty = true
	o.emit(EventDel, key, e.Value)
	return true
}

// validKeys lists valid keys in insertion order, purging expired ones.
func (o *op[V]) validKeys() []string {
	keys := make([]string, 0, o.table.Len())
	for _, k := range o.table.Keys() {
		if _, ok := o.lookup(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

func (o *op[V]) set(key string, value V, ttl *time.Duration) bool {
	if !o.table.Has(key) && !o.admit(key) {
		o.c.recorder.Reject(o.c.namespace)
		return false
	}
	o.table.Put(key, storage.Entry[V]{
		Value:        value,
		ExpiresAt:    computeExpiry(o.now, ttl, o.c.cfg.stdTTL),
		LastModified: o.now,
	})
	o.dirty = true
	o.emit(EventSet, key, value)
	o.c.recorder.Set(o.c.namespace)
	return true
}

// load reads the namespace table. Faults and malformed records yield an empty table.
func (c *Cache[V]) load() (table *storage.Table[V]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.storageFault("get", errors.Errorf("storage panicked: %v", recovered))
			table = storage.NewTable[V]()
		}
	}()
	table, err := c.storage.Get(c.key)
	if err != nil {
		c.storageFault("get", err)
		return storage.NewTable[V]()
	}
	if table == nil {
		return storage.NewTable[V]()
	}
	return table
}

func (c *Cache[V]) persist(table *storage.Table[V]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.storageFault("set", errors.Errorf("storage panicked: %v", recovered))
		}
	}()
	if err := c.storage.Set(c.key, table); err != nil {
		c.storageFault("set", err)
		return
	}
	c.recorder.Entries(c.namespace, table.Len())
}

func (c *Cache[V]) drop() {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.storageFault("del", errors.Errorf("storage panicked: %v", recovered))
		}
	}()
	if err := c.storage.Del(c.key); err != nil {
		c.storageFault("del", err)
		return
	}
	c.recorder.Entries(c.namespace, 0)
}

func (c *Cache[V]) storageFault(op string, err error) {
	c.recorder.StorageError(c.namespace, op)
	c.logger.Warnf(c.ctx, "storage %s of record %s failed, continuing without it: %s", op, c.key, errors.AsTrackable(err).Detailed())
}
