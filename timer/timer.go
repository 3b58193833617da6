package timer

import (
	"sync"
	"time"
)

type Timer interface {
	Start() bool
	Repeat() bool
	Reset() bool
	Wait()
	Stop() bool
}

type timer struct {
	mu       sync.Mutex
	fn       func()
	duration time.Duration
	timer    *time.Timer
	repeat   bool
	// gen invalidates callbacks scheduled before the last Stop
	gen  uint64
	idle chan struct{}
}

// New creates a timer that runs fn once duration elapses after Start, or after every run when
// started with Repeat. The next repetition is scheduled only after fn returns.
func New(duration time.Duration, fn func()) Timer {
	return &timer{
		duration: duration,
		fn:       fn,
	}
}

func (t *timer) Start() bool {
	return t.arm(false)
}

func (t *timer) Repeat() bool {
	return t.arm(true)
}

func (t *timer) arm(repeat bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		// already started
		return false
	}
	t.repeat = repeat
	t.gen++
	t.idle = make(chan struct{})
	gen := t.gen
	t.timer = time.AfterFunc(t.duration, func() {
		t.run(gen)
	})
	return true
}

func (t *timer) run(gen uint64) {
	t.mu.Lock()
	if gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.fn()

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.gen {
		// stopped while fn was running
		return
	}
	close(t.idle)
	if t.repeat {
		t.idle = make(chan struct{})
		t.timer.Reset(t.duration)
		return
	}
	t.timer = nil
}

// Wait blocks until the pending run completes or the timer is stopped.
func (t *timer) Wait() {
	t.mu.Lock()
	if t.timer == nil {
		t.mu.Unlock()
		return
	}
	idle := t.idle
	t.mu.Unlock()
	<-idle
}

// Stop cancels any pending run. A run already in progress is not interrupted but will not
// reschedule itself.
func (t *timer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.gen++
	close(t.idle)
	return true
}

// Reset postpones a pending run by a full duration. It fails when nothing is pending.
func (t *timer) Reset() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil || !t.timer.Stop() {
		return false
	}
	t.timer.Reset(t.duration)
	return true
}
