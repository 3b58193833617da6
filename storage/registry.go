package storage

import (
	"sort"
	"sync"
)

// Registry owns in-process records, partitioned into scopes (one per namespace). Scopes are
// created on first write and never torn down automatically. Records are kept by reference.
type Registry struct {
	lock        sync.RWMutex
	scopes      map[string]map[string]any
	recordLocks map[recordID]*sync.Mutex
}

type recordID struct {
	scope string
	key   string
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

func NewRegistry() *Registry {
	return &Registry{
		scopes:      make(map[string]map[string]any),
		recordLocks: make(map[recordID]*sync.Mutex),
	}
}

// DefaultRegistry returns the process wide registry, creating it on first use.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// RecordLock returns the mutex owned by key of scope. Every caller gets the same mutex for
// the same record, including after the record or its scope was removed.
func (r *Registry) RecordLock(scope, key string) sync.Locker {
	id := recordID{scope: scope, key: key}
	r.lock.Lock()
	defer r.lock.Unlock()
	l, ok := r.recordLocks[id]
	if !ok {
		l = new(sync.Mutex)
		r.recordLocks[id] = l
	}
	return l
}

func (r *Registry) GetItem(scope, key string) (any, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	item, ok := r.scopes[scope][key]
	return item, ok
}

func (r *Registry) SetItem(scope, key string, item any) {
	r.lock.Lock()
	defer r.lock.Unlock()
	items, ok := r.scopes[scope]
	if !ok {
		items = make(map[string]any)
		r.scopes[scope] = items
	}
	items[key] = item
}

func (r *Registry) RemoveItem(scope, key string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.scopes[scope], key)
}

// ClearScope drops every record of scope.
func (r *Registry) ClearScope(scope string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.scopes[scope] = make(map[string]any)
}

func (r *Registry) Scopes() []string {
	r.lock.RLock()
	defer r.lock.RUnlock()
	scopes := make([]string, 0, len(r.scopes))
	for s := range r.scopes {
		scopes = append(scopes, s)
	}
	sort.Strings(scopes)
	return scopes
}
