package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/dlshle/nscache/logging"
	"github.com/dlshle/nscache/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestCache[V any](t *testing.T, clock *fakeClock, opts ...Option) *Cache[V] {
	t.Helper()
	base := []Option{
		WithRegistry(storage.NewRegistry()),
		WithClock(clock.Now),
		WithLogger(logging.NoopLogger()),
	}
	c, err := New[V]("test", append(base, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		c.Close()
	})
	return c
}

type eventLog[V any] struct {
	mu     sync.Mutex
	events []Event[V]
}

func recordEvents[V any](c *Cache[V]) *eventLog[V] {
	l := &eventLog[V]{}
	for _, kind := range []EventKind{EventSet, EventDel, EventExpired} {
		c.On(kind, func(e Event[V]) {
			l.mu.Lock()
			defer l.mu.Unlock()
			l.events = append(l.events, e)
		})
	}
	return l
}

func (l *eventLog[V]) take() []Event[V] {
	l.mu.Lock()
	defer l.mu.Unlock()
	events := l.events
	l.events = nil
	return events
}

type countingRecorder struct {
	mu            sync.Mutex
	hits          int
	misses        int
	sets          int
	rejects       int
	evictions     int
	expirations   int
	storageErrors map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{storageErrors: make(map[string]int)}
}

func (r *countingRecorder) with(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}

func (r *countingRecorder) Hit(string)    { r.with(func() { r.hits++ }) }
func (r *countingRecorder) Miss(string)   { r.with(func() { r.misses++ }) }
func (r *countingRecorder) Set(string)    { r.with(func() { r.sets++ }) }
func (r *countingRecorder) Reject(string) { r.with(func() { r.rejects++ }) }
func (r *countingRecorder) Evict(string)  { r.with(func() { r.evictions++ }) }
func (r *countingRecorder) Expire(string) { r.with(func() { r.expirations++ }) }
func (r *countingRecorder) StorageError(_ string, op string) {
	r.with(func() { r.storageErrors[op]++ })
}
func (r *countingRecorder) Entries(string, int) {}
