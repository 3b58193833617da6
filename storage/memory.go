package storage

import (
	"sync"

	"github.com/dlshle/nscache/errors"
)

const DefaultScope = "default"

// MemoryStorage keeps tables in a Registry scope without any encoding. Get hands out the
// stored table itself, so callers share it with every other reader of the scope.
type MemoryStorage[V any] struct {
	registry *Registry
	scope    string
}

// NewMemoryStorage binds to scope of registry; a nil registry means DefaultRegistry.
func NewMemoryStorage[V any](registry *Registry, scope string) *MemoryStorage[V] {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if scope == "" {
		scope = DefaultScope
	}
	return &MemoryStorage[V]{
		registry: registry,
		scope:    scope,
	}
}

func (s *MemoryStorage[V]) Get(key string) (*Table[V], error) {
	item, ok := s.registry.GetItem(s.scope, key)
	if !ok || item == nil {
		return nil, nil
	}
	table, ok := item.(*Table[V])
	if !ok {
		return nil, errors.Errorf("record %s holds %T: %w", key, item, ErrMalformedRecord)
	}
	return table, nil
}

// RecordLock serializes every cache of the registry working on key of this scope.
func (s *MemoryStorage[V]) RecordLock(key string) sync.Locker {
	return s.registry.RecordLock(s.scope, key)
}

func (s *MemoryStorage[V]) Set(key string, table *Table[V]) error {
	s.registry.SetItem(s.scope, key, table)
	return nil
}

func (s *MemoryStorage[V]) Del(key string) error {
	s.registry.RemoveItem(s.scope, key)
	return nil
}

// Clear drops the whole scope, including records of other caches sharing it.
func (s *MemoryStorage[V]) Clear() error {
	s.registry.ClearScope(s.scope)
	return nil
}

// MemoryBackend is a byte Backend that copies data in and out.
type MemoryBackend struct {
	lock sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data: make(map[string][]byte),
	}
}

func (b *MemoryBackend) Get(key string) ([]byte, error) {
	b.lock.RLock()
	defer b.lock.RUnlock()
	data, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (b *MemoryBackend) Set(key string, data []byte) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Delete(key string) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	delete(b.data, key)
	return nil
}

func (b *MemoryBackend) Clear() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.data = make(map[string][]byte)
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
