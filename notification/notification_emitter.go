package notification

import (
	"fmt"
	"sync"
	"sync/atomic"
)

const DefaultMaxListeners = 256

type EventListener[T any] func(T)
type Disposable func()

type listenerEntry[T any] struct {
	id       uint64
	listener EventListener[T]
}

type notificationEmitter[T any] struct {
	listeners                map[string][]listenerEntry[T]
	lock                     *sync.RWMutex
	maxNumOfMessageListeners int
	nextID                   uint64
}

type WRNotificationEmitter[T any] interface {
	HasEvent(eventID string) bool
	MessageListenerCount(eventID string) int
	Notify(eventID string, payload T)
	On(eventID string, listener EventListener[T]) (Disposable, error)
	Once(eventID string, listener EventListener[T]) (Disposable, error)
	OffAll(eventID string)
}

func New[T any](maxMessageListenerCount int) WRNotificationEmitter[T] {
	if maxMessageListenerCount < 1 || maxMessageListenerCount > DefaultMaxListeners {
		maxMessageListenerCount = DefaultMaxListeners
	}
	return &notificationEmitter[T]{
		listeners:                make(map[string][]listenerEntry[T]),
		lock:                     new(sync.RWMutex),
		maxNumOfMessageListeners: maxMessageListenerCount,
	}
}

func (e *notificationEmitter[T]) withWrite(cb func()) {
	e.lock.Lock()
	defer e.lock.Unlock()
	cb()
}

func (e *notificationEmitter[T]) addMessageListener(eventID string, listener EventListener[T]) (id uint64, err error) {
	e.withWrite(func() {
		listeners := e.listeners[eventID]
		if len(listeners) >= e.maxNumOfMessageListeners {
			err = fmt.Errorf("listener count exceeded maxMessageListenerCount(%d) for event %s", e.maxNumOfMessageListeners, eventID)
			return
		}
		e.nextID++
		id = e.nextID
		e.listeners[eventID] = append(listeners, listenerEntry[T]{id: id, listener: listener})
	})
	return
}

func (e *notificationEmitter[T]) removeMessageListener(eventID string, id uint64) {
	e.withWrite(func() {
		listeners := e.listeners[eventID]
		for i, l := range listeners {
			if l.id != id {
				continue
			}
			if len(listeners) == 1 {
				delete(e.listeners, eventID)
				return
			}
			// copy so that snapshots taken by Notify stay intact
			remaining := make([]listenerEntry[T], 0, len(listeners)-1)
			remaining = append(remaining, listeners[:i]...)
			e.listeners[eventID] = append(remaining, listeners[i+1:]...)
			return
		}
	})
}

func (e *notificationEmitter[T]) HasEvent(eventID string) bool {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.listeners[eventID]) > 0
}

// Notify calls the listeners of eventID one by one in registration order. Listeners added or
// removed meanwhile take effect from the next Notify.
func (e *notificationEmitter[T]) Notify(eventID string, payload T) {
	e.lock.RLock()
	listeners := e.listeners[eventID]
	e.lock.RUnlock()
	for _, l := range listeners {
		l.listener(payload)
	}
}

func (e *notificationEmitter[T]) MessageListenerCount(eventID string) int {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return len(e.listeners[eventID])
}

func (e *notificationEmitter[T]) On(eventID string, listener EventListener[T]) (Disposable, error) {
	id, err := e.addMessageListener(eventID, listener)
	if err != nil {
		return nil, err
	}
	return func() {
		e.removeMessageListener(eventID, id)
	}, nil
}

func (e *notificationEmitter[T]) Once(eventID string, listener EventListener[T]) (Disposable, error) {
	var (
		hasFired atomic.Bool
		id       uint64
		idReady  = make(chan struct{})
	)
	id, err := e.addMessageListener(eventID, func(param T) {
		if !hasFired.CompareAndSwap(false, true) {
			return
		}
		<-idReady
		e.removeMessageListener(eventID, id)
		listener(param)
	})
	close(idReady)
	if err != nil {
		return nil, err
	}
	return func() {
		hasFired.Store(true)
		e.removeMessageListener(eventID, id)
	}, nil
}

func (e *notificationEmitter[T]) OffAll(eventID string) {
	e.withWrite(func() {
		delete(e.listeners, eventID)
	})
}
