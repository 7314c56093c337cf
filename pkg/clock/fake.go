package clock

import (
	"sync"
	"time"
)

// Fake is a manually driven Clock and Scheduler.
//
// Time only moves through Advance. Due callbacks run synchronously on the
// goroutine calling Advance, in due-time order (ties by handle), with the
// fake's lock released so callbacks may schedule or cancel timers.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	next   Handle
	timers map[Handle]*fakeTimer
}

type fakeTimer struct {
	fn       func()
	interval time.Duration
	due      time.Time
}

// NewFake creates a Fake positioned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{
		now:    start,
		timers: make(map[Handle]*fakeTimer),
	}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Schedule arms fn to run every interval of fake time.
func (f *Fake) Schedule(fn func(), interval time.Duration) Handle {
	if interval <= 0 || fn == nil {
		return 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	f.timers[f.next] = &fakeTimer{
		fn:       fn,
		interval: interval,
		due:      f.now.Add(interval),
	}
	return f.next
}

// Cancel removes the timer for h.
func (f *Fake) Cancel(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.timers, h)
}

// Active returns the number of armed timers.
func (f *Fake) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

// Advance moves time forward by d, firing every tick that falls due on the
// way. It returns the number of callbacks run.
func (f *Fake) Advance(d time.Duration) int {
	f.mu.Lock()
	end := f.now.Add(d)
	f.mu.Unlock()

	fired := 0
	for {
		f.mu.Lock()
		_, t := f.earliest(end)
		if t == nil {
			f.now = end
			f.mu.Unlock()
			return fired
		}
		f.now = t.due
		t.due = t.due.Add(t.interval)
		fn := t.fn
		f.mu.Unlock()

		fn()
		fired++
	}
}

// earliest returns the timer with the earliest due time not after end.
// Caller must hold f.mu.
func (f *Fake) earliest(end time.Time) (Handle, *fakeTimer) {
	var (
		bestH Handle
		best  *fakeTimer
	)
	for h, t := range f.timers {
		if t.due.After(end) {
			continue
		}
		if best == nil || t.due.Before(best.due) || (t.due.Equal(best.due) && h < bestH) {
			bestH, best = h, t
		}
	}
	return bestH, best
}

// Compile-time interface satisfaction checks.
var (
	_ Clock     = (*Fake)(nil)
	_ Scheduler = (*Fake)(nil)
)
