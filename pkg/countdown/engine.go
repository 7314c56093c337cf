package countdown

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// Engine is a date countdown: it counts down to an absolute target instant.
// Engine is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	id   string
	name string

	clock     clock.Clock
	scheduler clock.Scheduler
	breakdown BreakdownStrategy
	rounding  timedelta.Rounding
	logger    *slog.Logger
	events    log.Logger

	state     State
	target    time.Time
	reference time.Time
	interval  time.Duration
	mode      Mode

	// handle is the armed timer (zero if none). gen is bumped on every
	// cancel so ticks from an older timer can be recognized and dropped.
	handle clock.Handle
	gen    uint64

	snapshot Snapshot

	// Callbacks
	onUpdate      func(Snapshot)
	onStateChange func(oldState, newState State)
	onCompleted   func(Snapshot)
}

// NewEngine creates an Idle engine. Target and reference are both "now", so
// the initial snapshot reads zero everywhere.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		id:        uuid.NewString(),
		name:      opts.Name,
		clock:     opts.Clock,
		scheduler: opts.Scheduler,
		breakdown: opts.Breakdown,
		rounding:  opts.Rounding,
		logger:    opts.Logger,
		events:    opts.EventLogger,
		state:     StateIdle,
		interval:  DefaultInterval,
		mode:      ModeCascading,
	}

	if e.clock == nil {
		e.clock = clock.System
	}
	if e.scheduler == nil {
		e.scheduler = clock.NewTickerScheduler()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.events == nil {
		e.events = log.NoopLogger{}
	}
	e.logger = e.logger.With("countdown_id", e.id)
	if e.name != "" {
		e.logger = e.logger.With("name", e.name)
	}

	now := e.clock.Now()
	e.target = now
	e.reference = now
	e.snapshot = e.computeLocked()

	return e
}

// ID returns the unique countdown id.
func (e *Engine) ID() string {
	return e.id
}

// Name returns the countdown name given in Options.
func (e *Engine) Name() string {
	return e.name
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns the values computed at the last transition or tick.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Remaining returns the remaining time as of the last transition or tick.
func (e *Engine) Remaining() time.Duration {
	return e.Snapshot().Remaining
}

// OnUpdate sets a callback invoked with the new snapshot after every
// transition and tick. It runs outside the engine lock.
func (e *Engine) OnUpdate(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onUpdate = fn
}

// OnStateChange sets a callback for state transitions.
func (e *Engine) OnStateChange(fn func(oldState, newState State)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onStateChange = fn
}

// Start counts down to target, recomputing every interval, and reports
// values in mode. Start may be called in any state and replaces the
// previous countdown.
//
// A zero target or one that is not in the future completes the countdown
// immediately. A non-positive interval is replaced by DefaultInterval.
// Both are reported as warnings.
func (e *Engine) Start(target time.Time, interval time.Duration, mode Mode) {
	e.start(target, interval, mode, log.CommandStart)
}

// StartDefault starts a cascading countdown to target with DefaultInterval.
func (e *Engine) StartDefault(target time.Time) {
	e.Start(target, DefaultInterval, ModeCascading)
}

// Pause cancels the timer and freezes the values at the last tick.
// It is a no-op unless the countdown is running.
func (e *Engine) Pause() {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	n := e.newNotice()
	n.control(log.CommandPause)
	e.cancelLocked()
	e.setStateLocked(n, StatePaused, "pause")
	e.refreshLocked(n, false)
	e.mu.Unlock()

	e.flush(n)
}

// Resume continues a paused countdown against the live clock. If the target
// has passed while paused the countdown completes. It is a no-op unless the
// countdown is paused.
func (e *Engine) Resume() {
	e.resume(false)
}

// Stop cancels the timer and pins the remaining time to zero, whatever the
// current state.
func (e *Engine) Stop() {
	e.mu.Lock()
	n := e.newNotice()
	n.control(log.CommandStop)
	e.cancelLocked()
	e.reference = e.target
	e.setStateLocked(n, StateCompleted, "stop")
	e.refreshLocked(n, false)
	e.mu.Unlock()

	e.flush(n)
}

// setOnCompleted installs the Manager's completion hook. It fires after
// OnStateChange and OnUpdate.
func (e *Engine) setOnCompleted(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onCompleted = fn
}

func (e *Engine) start(target time.Time, interval time.Duration, mode Mode, cmd log.Command) {
	e.mu.Lock()
	n := e.newNotice()
	now := n.now

	if interval <= 0 {
		n.warn(log.WarnInvalidInterval,
			fmt.Sprintf("invalid interval %v, using default %v", interval, DefaultInterval))
		interval = DefaultInterval
	}
	if !mode.valid() {
		e.logger.Warn("unknown mode, using cascading", "mode", uint8(mode))
		mode = ModeCascading
	}

	e.cancelLocked()
	e.interval = interval
	e.mode = mode
	e.reference = now

	if target.IsZero() || target.Sub(now).Milliseconds() <= 0 {
		if target.IsZero() {
			n.warn(log.WarnInvalidTarget, "missing target, completing immediately")
		} else {
			n.warn(log.WarnInvalidTarget,
				fmt.Sprintf("target %s is not in the future, completing immediately", target.Format(time.RFC3339Nano)))
		}
		e.target = now
		n.controlWith(cmd, e.target, interval, mode)
		e.setStateLocked(n, StateCompleted, "invalid target")
	} else {
		e.target = target
		n.controlWith(cmd, e.target, interval, mode)
		e.armLocked()
		e.setStateLocked(n, StateRunning, cmd.String())
	}

	e.refreshLocked(n, false)
	e.mu.Unlock()

	e.flush(n)
}

// resume implements Resume. With keepRemaining the target is moved forward
// by the time spent paused, so the countdown continues from its frozen
// remaining time instead of the live delta.
func (e *Engine) resume(keepRemaining bool) {
	e.mu.Lock()
	if e.state != StatePaused {
		e.mu.Unlock()
		return
	}

	n := e.newNotice()
	now := n.now

	if keepRemaining {
		e.target = now.Add(e.target.Sub(e.reference))
		n.controlWith(log.CommandResume, e.target, e.interval, e.mode)
	} else {
		n.control(log.CommandResume)
	}

	if e.target.Sub(now).Milliseconds() > 0 {
		e.reference = now
		e.armLocked()
		e.setStateLocked(n, StateRunning, "resume")
	} else {
		e.reference = e.target
		e.setStateLocked(n, StateCompleted, "target passed while paused")
	}

	e.refreshLocked(n, false)
	e.mu.Unlock()

	e.flush(n)
}

// tick is the timer callback for timer generation gen.
func (e *Engine) tick(gen uint64) {
	e.mu.Lock()
	if gen != e.gen || e.state != StateRunning {
		e.mu.Unlock()
		return
	}

	n := e.newNotice()
	now := n.now

	if e.target.Sub(now).Milliseconds() <= 0 {
		e.cancelLocked()
		e.reference = e.target
		e.setStateLocked(n, StateCompleted, "elapsed")
	} else {
		e.reference = now
	}

	e.refreshLocked(n, true)
	e.mu.Unlock()

	e.flush(n)
}

// armLocked schedules a new timer. Any previous timer must already be
// cancelled. Caller must hold e.mu.
func (e *Engine) armLocked() {
	gen := e.gen
	e.handle = e.scheduler.Schedule(func() { e.tick(gen) }, e.interval)
}

// cancelLocked cancels the armed timer, if any. Caller must hold e.mu.
func (e *Engine) cancelLocked() {
	if e.handle != 0 {
		e.scheduler.Cancel(e.handle)
		e.handle = 0
	}
	e.gen++
}

func (e *Engine) setStateLocked(n *notice, s State, reason string) {
	if e.state == s {
		return
	}
	n.transition(e.state, s, reason)
	e.state = s
}

// refreshLocked recomputes the snapshot and records it on n.
func (e *Engine) refreshLocked(n *notice, isTick bool) {
	e.snapshot = e.computeLocked()
	n.snapshot = e.snapshot
	if isTick {
		n.tick(e.snapshot)
	}
}

func (e *Engine) computeLocked() Snapshot {
	remaining := e.target.Sub(e.reference)
	if remaining < 0 {
		remaining = 0
	}

	s := Snapshot{
		ID:        e.id,
		Name:      e.name,
		State:     e.state,
		Mode:      e.mode,
		Target:    e.target,
		Reference: e.reference,
		Interval:  e.interval,
		Remaining: remaining,
	}

	ms := remaining.Milliseconds()
	switch {
	case ms <= 0:
		// all zero
	case e.mode == ModeTotal:
		s.Values = timedelta.Total(ms, e.rounding)
	case e.breakdown == BreakdownFixed:
		s.Values = timedelta.Cascade(ms)
	default:
		s.Values = timedelta.CascadeBetween(e.reference, e.target)
	}
	return s
}

// notice collects everything a transition needs to publish once the engine
// lock has been released.
type notice struct {
	now      time.Time
	events   []log.Event
	warnings []log.WarningEvent

	changed            bool
	oldState, newState State

	snapshot Snapshot
}

func (e *Engine) newNotice() *notice {
	return &notice{now: e.clock.Now()}
}

func (n *notice) control(cmd log.Command) {
	n.events = append(n.events, log.Event{
		Category: log.CategoryControl,
		Control:  &log.ControlEvent{Command: cmd},
	})
}

// controlWith records a command together with the resolved settings.
func (n *notice) controlWith(cmd log.Command, target time.Time, interval time.Duration, mode Mode) {
	n.events = append(n.events, log.Event{
		Category: log.CategoryControl,
		Control: &log.ControlEvent{
			Command:  cmd,
			Target:   &target,
			Interval: &interval,
			Mode:     mode.String(),
		},
	})
}

func (n *notice) warn(code log.WarningCode, msg string) {
	w := log.WarningEvent{Code: code, Message: msg}
	n.warnings = append(n.warnings, w)
	n.events = append(n.events, log.Event{Category: log.CategoryWarning, Warning: &w})
}

func (n *notice) transition(from, to State, reason string) {
	n.changed = true
	n.oldState, n.newState = from, to
	n.events = append(n.events, log.Event{
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}

func (n *notice) tick(s Snapshot) {
	n.events = append(n.events, log.Event{
		Category: log.CategoryTick,
		Tick:     &log.TickEvent{RemainingMs: s.Remaining.Milliseconds(), Reference: s.Reference},
	})
}

// flush publishes n: warnings to slog, events to the event logger, then
// the state change and update callbacks. Must be called without e.mu held.
func (e *Engine) flush(n *notice) {
	e.mu.Lock()
	onUpdate := e.onUpdate
	onStateChange := e.onStateChange
	onCompleted := e.onCompleted
	e.mu.Unlock()

	for _, w := range n.warnings {
		e.logger.Warn(w.Message, "code", w.Code.String())
	}

	for _, ev := range n.events {
		ev.Timestamp = n.now
		ev.CountdownID = e.id
		ev.Name = e.name
		e.events.Log(ev)
	}

	if n.changed && onStateChange != nil {
		onStateChange(n.oldState, n.newState)
	}
	if onUpdate != nil {
		onUpdate(n.snapshot)
	}
	if n.changed && n.newState == StateCompleted && onCompleted != nil {
		onCompleted(n.snapshot)
	}
}

// Compile-time interface satisfaction check.
var _ Countdown = (*Engine)(nil)
