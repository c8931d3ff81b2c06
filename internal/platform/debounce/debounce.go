// Package debounce delays work until calls stop arriving for a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/juju/clock"
)

// DefaultDelay is used when a non-positive delay is supplied.
const DefaultDelay = 300 * time.Millisecond

// Func runs fn with the latest argument once delay has passed without a new
// Call. It is safe for concurrent use.
type Func[T any] struct {
	fn    func(T)
	delay time.Duration
	clock clock.Clock

	mu      sync.Mutex
	timer   clock.Timer
	pending bool
	arg     T
	gen     uint64
}

// NewFunc returns a debounced fn. A nil clock uses the wall clock.
func NewFunc[T any](fn func(T), delay time.Duration, clk clock.Clock) *Func[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &Func[T]{fn: fn, delay: delay, clock: clk}
}

// Call schedules fn(arg), replacing any pending call and restarting the delay.
func (f *Func[T]) Call(arg T) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.arg = arg
	f.pending = true
	f.timer = f.clock.AfterFunc(f.delay, func() { f.fire(gen) })
}

func (f *Func[T]) fire(gen uint64) {
	f.mu.Lock()
	if gen != f.gen || !f.pending {
		f.mu.Unlock()
		return
	}
	arg := f.arg
	f.pending = false
	f.timer = nil
	f.mu.Unlock()
	f.fn(arg)
}

// Cancel drops the pending call. It reports whether one was pending.
func (f *Func[T]) Cancel() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clearLocked()
}

// Flush runs the pending call now, in the caller's goroutine. It reports
// whether one was pending.
func (f *Func[T]) Flush() bool {
	f.mu.Lock()
	arg := f.arg
	if !f.clearLocked() {
		f.mu.Unlock()
		return false
	}
	f.mu.Unlock()
	f.fn(arg)
	return true
}

// Pending reports whether a call is scheduled.
func (f *Func[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}

func (f *Func[T]) clearLocked() bool {
	if !f.pending {
		return false
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.pending = false
	f.gen++
	var zero T
	f.arg = zero
	return true
}
