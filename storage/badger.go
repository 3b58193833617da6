package storage

import (
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v3"

	"github.com/dlshle/nscache/errors"
	"github.com/dlshle/nscache/utils"
)

const badgerGCInterval = 10 * time.Minute

// BadgerBackend keeps records in a badger database, one badger key per record key.
type BadgerBackend struct {
	db        *badger.DB
	stop      chan struct{}
	closeOnce sync.Once
}

// NewBadgerBackend opens (or creates) a database under dir with badger's own logging muted.
func NewBadgerBackend(dir string) (*BadgerBackend, error) {
	return NewBadgerBackendWithOptions(badger.DefaultOptions(dir).WithLogger(nil))
}

func NewBadgerBackendWithOptions(opts badger.Options) (*BadgerBackend, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Errorf("open badger database: %w", err)
	}
	b := &BadgerBackend{
		db:   db,
		stop: make(chan struct{}),
	}
	if !opts.InMemory {
		b.doGC()
		go b.garbageCollectionRoutine()
	}
	return b, nil
}

func (b *BadgerBackend) garbageCollectionRoutine() {
	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.doGC()
		case <-b.stop:
			return
		}
	}
}

func (b *BadgerBackend) doGC() {
	// gc removes at most one file per run
	for b.db.RunValueLogGC(0.7) == nil {
	}
}

func (b *BadgerBackend) withRead(cb func(tx *badger.Txn) error) error {
	return b.db.View(cb)
}

func (b *BadgerBackend) withWrite(cb func(tx *badger.Txn) error) error {
	return b.db.Update(cb)
}

func (b *BadgerBackend) Get(key string) (data []byte, err error) {
	err = b.withRead(func(tx *badger.Txn) error {
		var item *badger.Item
		return utils.ProcessWithErrors(func() error {
			item, err = tx.Get([]byte(key))
			if err == badger.ErrKeyNotFound {
				return ErrNotFound
			}
			return err
		}, func() error {
			data, err = item.ValueCopy(nil)
			return err
		})
	})
	return
}

func (b *BadgerBackend) Set(key string, data []byte) error {
	return b.withWrite(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), data)
	})
}

func (b *BadgerBackend) Delete(key string) error {
	return b.withWrite(func(tx *badger.Txn) error {
		return tx.Delete([]byte(key))
	})
}

// Clear drops every key of the database.
func (b *BadgerBackend) Clear() error {
	return b.db.DropAll()
}

func (b *BadgerBackend) Close() (err error) {
	b.closeOnce.Do(func() {
		close(b.stop)
		err = b.db.Close()
	})
	return
}
