// Package clock provides the time source and repeating-timer capability
// used by countdown engines.
//
// Production code uses System and NewTickerScheduler. Tests use Fake, which
// implements both interfaces and only moves when Advance is called.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Handle identifies a scheduled repeating callback. The zero Handle never
// refers to an active timer.
type Handle uint64

// Scheduler runs a callback repeatedly at a fixed interval until cancelled.
type Scheduler interface {
	// Schedule arms fn to run every interval. A non-positive interval arms
	// nothing and returns the zero Handle.
	Schedule(fn func(), interval time.Duration) Handle

	// Cancel stops the timer identified by h. Cancelling an unknown or zero
	// handle is a no-op.
	Cancel(h Handle)
}

// System is the Clock backed by time.Now.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// TickerScheduler is a Scheduler that runs each timer on its own goroutine
// driven by a time.Ticker. Callbacks can still be in flight when Cancel
// returns; callers must tolerate one late invocation.
type TickerScheduler struct {
	mu     sync.Mutex
	next   Handle
	active map[Handle]chan struct{}
}

// NewTickerScheduler creates a ticker backed Scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{
		active: make(map[Handle]chan struct{}),
	}
}

// Schedule arms fn on a new ticker.
func (s *TickerScheduler) Schedule(fn func(), interval time.Duration) Handle {
	if interval <= 0 || fn == nil {
		return 0
	}

	s.mu.Lock()
	s.next++
	h := s.next
	stop := make(chan struct{})
	s.active[h] = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()

	return h
}

// Cancel stops the ticker for h.
func (s *TickerScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stop, ok := s.active[h]; ok {
		close(stop)
		delete(s.active, h)
	}
}

// Active returns the number of armed timers.
func (s *TickerScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}

// Compile-time interface satisfaction checks.
var (
	_ Clock     = systemClock{}
	_ Scheduler = (*TickerScheduler)(nil)
)
