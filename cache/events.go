package cache

import (
	"github.com/dlshle/nscache/notification"
)

type EventKind string

const (
	// EventSet fires for every successful insert or update.
	EventSet EventKind = "set"
	// EventDel fires for every removed key, whatever removed it.
	EventDel EventKind = "del"
	// EventExpired follows the EventDel of a key found past its expiry.
	EventExpired EventKind = "expired"
)

type Event[V any] struct {
	Kind  EventKind
	Key   string
	Value V
}

func (c *Cache[V]) On(kind EventKind, listener func(Event[V])) (notification.Disposable, error) {
	return c.events.On(string(kind), listener)
}

// Once subscribes listener for the next event of kind only.
func (c *Cache[V]) Once(kind EventKind, listener func(Event[V])) (notification.Disposable, error) {
	return c.events.Once(string(kind), listener)
}

func (c *Cache[V]) OffAll(kind EventKind) {
	c.events.OffAll(string(kind))
}

func (c *Cache[V]) dispatch(events []Event[V]) {
	for _, e := range events {
		c.events.Notify(string(e.Kind), e)
	}
}
