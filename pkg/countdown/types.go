package countdown

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// DefaultInterval is the tick interval used when none or an invalid one is
// given.
const DefaultInterval = 1000 * time.Millisecond

// Manager errors.
var (
	ErrEmptyName      = errors.New("countdown name must not be empty")
	ErrNotFound       = errors.New("countdown not found")
	ErrNotRestartable = errors.New("countdown is not restartable")
	ErrRegistered     = errors.New("countdown is registered under another name")
)

// State represents the lifecycle state of a countdown.
type State uint8

const (
	// StateIdle indicates no countdown has been started.
	StateIdle State = iota

	// StateRunning indicates the timer is armed and time remains.
	StateRunning

	// StatePaused indicates the timer is cancelled and values are frozen.
	StatePaused

	// StateCompleted indicates the remaining time is pinned to zero.
	StateCompleted
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateRunning:
		return "RUNNING"
	case StatePaused:
		return "PAUSED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Mode selects how the remaining time is broken down.
type Mode uint8

const (
	// ModeCascading reports each unit as the remainder after larger units.
	ModeCascading Mode = iota

	// ModeTotal reports each unit as the whole remaining time in that unit.
	ModeTotal
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCascading:
		return "cascading"
	case ModeTotal:
		return "total"
	default:
		return "unknown"
	}
}

func (m Mode) valid() bool {
	return m == ModeCascading || m == ModeTotal
}

// ParseMode parses a mode name (cascading, total).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cascading", "cascade", "":
		return ModeCascading, nil
	case "total", "separated":
		return ModeTotal, nil
	default:
		return ModeCascading, fmt.Errorf("unknown mode: %q (valid: cascading, total)", s)
	}
}

// BreakdownStrategy selects how cascading days, months and years are derived.
type BreakdownStrategy uint8

const (
	// BreakdownCalendar walks real calendar months between reference and
	// target.
	BreakdownCalendar BreakdownStrategy = iota

	// BreakdownFixed uses 30-day months and 12-month years.
	BreakdownFixed
)

// String returns the strategy name.
func (b BreakdownStrategy) String() string {
	switch b {
	case BreakdownCalendar:
		return "calendar"
	case BreakdownFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// ParseBreakdown parses a breakdown strategy name (calendar, fixed).
func ParseBreakdown(s string) (BreakdownStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "calendar", "":
		return BreakdownCalendar, nil
	case "fixed":
		return BreakdownFixed, nil
	default:
		return BreakdownCalendar, fmt.Errorf("unknown breakdown: %q (valid: calendar, fixed)", s)
	}
}

// Options configures an Engine. The zero value is usable: system clock,
// ticker scheduler, calendar breakdown, unrounded totals, slog.Default().
type Options struct {
	// Name labels the countdown in snapshots and events.
	Name string

	// Clock provides "now". Defaults to clock.System.
	Clock clock.Clock

	// Scheduler arms repeating ticks. Defaults to a new ticker scheduler.
	Scheduler clock.Scheduler

	// Breakdown selects the cascading strategy.
	Breakdown BreakdownStrategy

	// Rounding applies to total mode values.
	Rounding timedelta.Rounding

	// Interval and Mode are used by countdowns that start without explicit
	// arguments (NumberCountdown, Manager.AddNumber). Zero Interval means
	// DefaultInterval.
	Interval time.Duration
	Mode     Mode

	// Logger receives warnings and diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// EventLogger receives structured countdown events. Nil disables capture.
	EventLogger log.Logger
}

// Snapshot is an immutable view of a countdown at one instant.
type Snapshot struct {
	ID        string
	Name      string
	State     State
	Mode      Mode
	Target    time.Time
	Reference time.Time
	Interval  time.Duration

	// Remaining is Target - Reference, never negative.
	Remaining time.Duration

	// Values is the per-unit breakdown of Remaining in Mode.
	Values timedelta.Breakdown
}

// Done reports whether the countdown has completed.
func (s Snapshot) Done() bool {
	return s.State == StateCompleted
}

// Countdown is the control surface shared by Engine and NumberCountdown.
type Countdown interface {
	ID() string
	Snapshot() Snapshot
	State() State
	Pause()
	Resume()
	Stop()
	OnUpdate(fn func(Snapshot))
	OnStateChange(fn func(oldState, newState State))
}
