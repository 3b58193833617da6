// Package storage holds the persistence side of a namespace cache: the record model
// (an insertion ordered Table of entries), the Storage contract the cache reads and
// writes records through, an in-process Registry of namespace scopes, and byte level
// Backends (memory, badger, redis) plugged in through a Codec.
package storage

import (
	stderrors "errors"
	"sync"
)

var (
	// ErrNotFound is returned by a Backend when no record exists under the key.
	ErrNotFound = stderrors.New("storage: record not found")
	// ErrMalformedRecord marks a stored record that could not be turned into a Table.
	ErrMalformedRecord = stderrors.New("storage: malformed record")
)

// Storage persists one Table per key. Get returns a nil Table and a nil error when
// nothing is stored under key.
type Storage[V any] interface {
	Get(key string) (*Table[V], error)
	Set(key string, table *Table[V]) error
	Del(key string) error
	// Clear wipes every key of the underlying medium, not only the caller's namespace.
	Clear() error
}

// Locker is implemented by storages that hand out records by reference. A cache holds
// RecordLock(key) across each read-modify-write of key, so writers sharing a record never
// touch it at the same time.
type Locker interface {
	RecordLock(key string) sync.Locker
}

// Backend stores opaque bytes.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Delete(key string) error
	Clear() error
	Close() error
}
