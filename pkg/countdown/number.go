package countdown

import (
	"fmt"
	"sync"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

// NumberCountdown counts down a fixed duration, or to an instant given up
// front. It is started without arguments and, when built from a duration,
// can be restarted.
type NumberCountdown struct {
	*Engine

	mu       sync.Mutex
	duration time.Duration
	target   time.Time
	interval time.Duration
	mode     Mode

	// fromDuration is set when the countdown was built from a duration.
	fromDuration bool
	valid        bool
}

// NewNumberCountdown creates a countdown of d measured from now. A
// non-positive d is logged as an error and leaves the countdown Idle with
// zeroed values; Start, Pause, Resume and Restart then do nothing.
func NewNumberCountdown(d time.Duration, opts Options) *NumberCountdown {
	e := NewEngine(opts)
	nc := &NumberCountdown{
		Engine:       e,
		duration:     d,
		interval:     opts.Interval,
		mode:         opts.Mode,
		fromDuration: true,
		valid:        d > 0,
	}
	if nc.interval == 0 {
		nc.interval = DefaultInterval
	}

	if !nc.valid {
		msg := fmt.Sprintf("invalid duration %v, countdown not initialized", d)
		e.logger.Error(msg, "duration", d)
		e.events.Log(log.Event{
			Timestamp:   e.clock.Now(),
			CountdownID: e.id,
			Name:        e.name,
			Category:    log.CategoryWarning,
			Warning:     &log.WarningEvent{Code: log.WarnInvalidDuration, Message: msg},
		})
		return nc
	}

	nc.target = e.clock.Now().Add(d)
	return nc
}

// NewNumberCountdownAt creates a countdown to target. It behaves like an
// Engine started with the options' interval and mode, and cannot be
// restarted.
func NewNumberCountdownAt(target time.Time, opts Options) *NumberCountdown {
	nc := &NumberCountdown{
		Engine:   NewEngine(opts),
		target:   target,
		interval: opts.Interval,
		mode:     opts.Mode,
		valid:    true,
	}
	if nc.interval == 0 {
		nc.interval = DefaultInterval
	}
	return nc
}

// Duration returns the duration the countdown was built from, or zero for
// instant-based countdowns.
func (nc *NumberCountdown) Duration() time.Duration {
	return nc.duration
}

// Valid reports whether the countdown can run. It is false for a
// non-positive duration.
func (nc *NumberCountdown) Valid() bool {
	return nc.valid
}

// Restartable reports whether Restart has any effect.
func (nc *NumberCountdown) Restartable() bool {
	return nc.fromDuration && nc.valid
}

// SetInterval sets the tick interval used by the next Start or Restart.
func (nc *NumberCountdown) SetInterval(interval time.Duration) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.interval = interval
}

// SetMode sets the output mode used by the next Start or Restart.
func (nc *NumberCountdown) SetMode(mode Mode) {
	nc.mu.Lock()
	defer nc.mu.Unlock()
	nc.mode = mode
}

// Start counts down to the target fixed at construction.
func (nc *NumberCountdown) Start() {
	if !nc.valid {
		return
	}
	nc.mu.Lock()
	target, interval, mode := nc.target, nc.interval, nc.mode
	nc.mu.Unlock()

	nc.Engine.start(target, interval, mode, log.CommandStart)
}

// Pause freezes the countdown. It does nothing for an invalid duration.
func (nc *NumberCountdown) Pause() {
	if !nc.valid {
		return
	}
	nc.Engine.Pause()
}

// Resume continues a paused countdown. Duration-based countdowns continue
// from the remaining time they had when paused; instant-based ones measure
// against the live clock.
func (nc *NumberCountdown) Resume() {
	if !nc.valid {
		return
	}
	nc.Engine.resume(nc.fromDuration)
}

// Restart counts the full duration down again from now, whatever the
// current state. It is a no-op for instant-based countdowns.
func (nc *NumberCountdown) Restart() {
	if !nc.Restartable() {
		return
	}
	nc.mu.Lock()
	nc.target = nc.Engine.clock.Now().Add(nc.duration)
	target, interval, mode := nc.target, nc.interval, nc.mode
	nc.mu.Unlock()

	nc.Engine.start(target, interval, mode, log.CommandRestart)
}

// Compile-time interface satisfaction check.
var _ Countdown = (*NumberCountdown)(nil)
