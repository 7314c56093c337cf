package countdown

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/countdown-go/countdown/pkg/clock"
	"github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine returns an engine driven by a fake clock at testStart.
func newTestEngine(opts Options) (*Engine, *clock.Fake) {
	fake := clock.NewFake(testStart)
	opts.Clock = fake
	opts.Scheduler = fake
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	return NewEngine(opts), fake
}

// stubEventLogger is a testify mock of log.Logger.
type stubEventLogger struct {
	mock.Mock
}

func (s *stubEventLogger) Log(event log.Event) {
	s.Called(event)
}

// eventRecorder collects events in order.
type eventRecorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *eventRecorder) Log(event log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) categories() []log.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]log.Category, len(r.events))
	for i, e := range r.events {
		out[i] = e.Category
	}
	return out
}

func isWarning(code log.WarningCode) func(log.Event) bool {
	return func(e log.Event) bool {
		return e.Category == log.CategoryWarning && e.Warning != nil && e.Warning.Code == code
	}
}

func TestEngineInitialState(t *testing.T) {
	e, fake := newTestEngine(Options{Name: "launch"})

	s := e.Snapshot()
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, "launch", s.Name)
	assert.Zero(t, s.Remaining)
	assert.True(t, s.Values.IsZero())
	assert.Equal(t, 0, fake.Active())

	_, err := uuid.Parse(e.ID())
	assert.NoError(t, err, "ID should be a UUID")
	assert.Equal(t, e.ID(), s.ID)
}

func TestEngineStartRunning(t *testing.T) {
	e, fake := newTestEngine(Options{})

	e.Start(testStart.Add(90*time.Minute), time.Second, ModeCascading)

	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 90*time.Minute, s.Remaining)
	assert.Equal(t, float64(1), s.Values.Hours)
	assert.Equal(t, float64(30), s.Values.Minutes)
	assert.Equal(t, float64(0), s.Values.Seconds)
	assert.Equal(t, 1, fake.Active())
}

func TestEngineStartDefault(t *testing.T) {
	e, _ := newTestEngine(Options{})

	e.StartDefault(testStart.Add(time.Hour))

	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, DefaultInterval, s.Interval)
	assert.Equal(t, ModeCascading, s.Mode)
}

func TestEngineTotalScenario(t *testing.T) {
	e, fake := newTestEngine(Options{})

	e.Start(testStart.Add(2500*time.Millisecond), time.Second, ModeTotal)

	s := e.Snapshot()
	require.Equal(t, StateRunning, s.State)
	assert.Equal(t, 2.5, s.Values.Seconds)
	assert.Equal(t, float64(2500), s.Values.Milliseconds)

	fake.Advance(time.Second)
	s = e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 1.5, s.Values.Seconds)
	assert.Equal(t, 1500*time.Millisecond, s.Remaining)

	fake.Advance(time.Second)
	assert.Equal(t, 500*time.Millisecond, e.Remaining())

	fake.Advance(time.Second)
	s = e.Snapshot()
	assert.Equal(t, StateCompleted, s.State)
	assert.Zero(t, s.Remaining)
	assert.True(t, s.Values.IsZero(), "values = %+v, want all zero", s.Values)
	assert.Equal(t, s.Target, s.Reference)
	assert.Equal(t, 0, fake.Active())
}

func TestEngineTotalRounding(t *testing.T) {
	tests := []struct {
		name      string
		rounding  timedelta.Rounding
		delta     time.Duration
		wantHours float64
		wantSecs  float64
	}{
		{"unrounded", timedelta.RoundNone, 90 * time.Minute, 1.5, 5400},
		{"nearest", timedelta.RoundNearest, 90 * time.Minute, 2, 5400},
		{"down", timedelta.RoundDown, 90 * time.Minute, 1, 5400},
		{"not reduced modulo a day", timedelta.RoundNone, 30 * time.Hour, 30, 108000},
		{"down short", timedelta.RoundDown, 2500 * time.Millisecond, 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(Options{Rounding: tt.rounding})
			e.Start(testStart.Add(tt.delta), time.Second, ModeTotal)

			s := e.Snapshot()
			if s.Values.Hours != tt.wantHours {
				t.Errorf("Hours = %v, want %v", s.Values.Hours, tt.wantHours)
			}
			if s.Values.Seconds != tt.wantSecs {
				t.Errorf("Seconds = %v, want %v", s.Values.Seconds, tt.wantSecs)
			}
		})
	}
}

func TestEngineInvalidInterval(t *testing.T) {
	var buf bytes.Buffer
	events := &stubEventLogger{}
	events.On("Log", mock.MatchedBy(isWarning(log.WarnInvalidInterval))).Once()
	events.On("Log", mock.Anything)

	e, fake := newTestEngine(Options{
		Logger:      slog.New(slog.NewTextHandler(&buf, nil)),
		EventLogger: events,
	})

	e.Start(testStart.Add(10*time.Second), -5*time.Millisecond, ModeCascading)

	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, DefaultInterval, s.Interval)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "invalid interval")
	events.AssertExpectations(t)

	fake.Advance(999 * time.Millisecond)
	assert.Equal(t, 10*time.Second, e.Remaining(), "no tick before the default interval")

	fake.Advance(time.Millisecond)
	assert.Equal(t, 9*time.Second, e.Remaining())
}

func TestEngineInvalidTarget(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
	}{
		{"past", testStart.Add(-time.Hour)},
		{"now", testStart},
		{"under a millisecond", testStart.Add(500 * time.Microsecond)},
		{"zero", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			events := &stubEventLogger{}
			events.On("Log", mock.MatchedBy(isWarning(log.WarnInvalidTarget))).Once()
			events.On("Log", mock.Anything)

			e, fake := newTestEngine(Options{
				Logger:      slog.New(slog.NewTextHandler(&buf, nil)),
				EventLogger: events,
			})

			e.Start(tt.target, time.Second, ModeTotal)

			s := e.Snapshot()
			assert.Equal(t, StateCompleted, s.State)
			assert.Zero(t, s.Remaining)
			assert.True(t, s.Values.IsZero())
			assert.Equal(t, testStart, s.Target, "target falls back to now")
			assert.Equal(t, 0, fake.Active())
			assert.Contains(t, buf.String(), "completing immediately")
			events.AssertExpectations(t)
		})
	}
}

func TestEngineUnknownModeFallsBack(t *testing.T) {
	e, _ := newTestEngine(Options{})

	e.Start(testStart.Add(time.Minute), time.Second, Mode(9))

	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, ModeCascading, s.Mode)
}

func TestEnginePauseFreezes(t *testing.T) {
	e, fake := newTestEngine(Options{})
	e.Start(testStart.Add(10*time.Second), time.Second, ModeTotal)

	fake.Advance(2500 * time.Millisecond)
	require.Equal(t, 8*time.Second, e.Remaining())

	e.Pause()

	frozen := e.Snapshot()
	assert.Equal(t, StatePaused, frozen.State)
	assert.Equal(t, 8*time.Second, frozen.Remaining, "reference stays at the last tick")
	assert.Equal(t, 0, fake.Active())

	fake.Advance(5 * time.Second)
	s := e.Snapshot()
	assert.Equal(t, frozen.Values, s.Values)
	assert.Equal(t, frozen.Remaining, s.Remaining)
}

func TestEnginePauseNotRunning(t *testing.T) {
	e, _ := newTestEngine(Options{})

	e.Pause()
	assert.Equal(t, StateIdle, e.State())

	e.Stop()
	e.Pause()
	assert.Equal(t, StateCompleted, e.State())
}

func TestEngineResumeLiveDelta(t *testing.T) {
	e, fake := newTestEngine(Options{})
	e.Start(testStart.Add(10*time.Second), time.Second, ModeTotal)

	fake.Advance(2500 * time.Millisecond)
	e.Pause()
	fake.Advance(3 * time.Second)

	e.Resume()

	s := e.Snapshot()
	assert.Equal(t, StateRunning, s.State)
	assert.Equal(t, 4500*time.Millisecond, s.Remaining, "resume measures against now, not the frozen value")
	assert.Equal(t, 1, fake.Active())

	fake.Advance(time.Second)
	assert.Equal(t, 3500*time.Millisecond, e.Remaining())
}

func TestEngineResumeAfterTargetPassed(t *testing.T) {
	e, fake := newTestEngine(Options{})
	target := testStart.Add(3 * time.Second)
	e.Start(target, time.Second, ModeCascading)

	fake.Advance(time.Second)
	e.Pause()
	fake.Advance(time.Minute)

	e.Resume()

	s := e.Snapshot()
	assert.Equal(t, StateCompleted, s.State)
	assert.Equal(t, target, s.Reference)
	assert.True(t, s.Values.IsZero())
	assert.Equal(t, 0, fake.Active())
}

func TestEngineResumeNotPaused(t *testing.T) {
	e, fake := newTestEngine(Options{})
	e.Start(testStart.Add(time.Minute), time.Second, ModeCascading)

	e.Resume()

	assert.Equal(t, StateRunning, e.State())
	assert.Equal(t, 1, fake.Active(), "resume while running must not arm a second timer")
}

func TestEngineStopZeroes(t *testing.T) {
	tests := []struct {
		name  string
		setup func(e *Engine, fake *clock.Fake)
	}{
		{"idle", func(e *Engine, fake *clock.Fake) {}},
		{"running", func(e *Engine, fake *clock.Fake) {
			e.Start(testStart.Add(time.Hour), time.Second, ModeCascading)
			fake.Advance(2 * time.Second)
		}},
		{"paused", func(e *Engine, fake *clock.Fake) {
			e.Start(testStart.Add(time.Hour), time.Second, ModeTotal)
			fake.Advance(2 * time.Second)
			e.Pause()
		}},
		{"completed", func(e *Engine, fake *clock.Fake) {
			e.Start(testStart.Add(time.Second), time.Second, ModeTotal)
			fake.Advance(2 * time.Second)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fake := newTestEngine(Options{})
			tt.setup(e, fake)

			e.Stop()

			s := e.Snapshot()
			assert.Equal(t, StateCompleted, s.State)
			assert.Zero(t, s.Remaining)
			assert.True(t, s.Values.IsZero(), "values = %+v, want all zero", s.Values)
			assert.Equal(t, 0, fake.Active())
		})
	}
}

func TestEngineRestartReplacesTimer(t *testing.T) {
	e, fake := newTestEngine(Options{})

	e.Start(testStart.Add(time.Hour), time.Second, ModeCascading)
	e.Start(testStart.Add(2*time.Hour), 500*time.Millisecond, ModeTotal)
	e.Start(testStart.Add(3*time.Hour), time.Second, ModeCascading)

	assert.Equal(t, 1, fake.Active())

	var updates int
	e.OnUpdate(func(Snapshot) { updates++ })
	fake.Advance(time.Second)
	assert.Equal(t, 1, updates, "only the current timer ticks")
}

func TestEngineStaleTickIgnored(t *testing.T) {
	e, _ := newTestEngine(Options{})
	e.Start(testStart.Add(time.Hour), time.Second, ModeCascading)

	var updates int
	e.OnUpdate(func(Snapshot) { updates++ })

	e.mu.Lock()
	stale := e.gen - 1
	e.mu.Unlock()

	e.tick(stale)
	assert.Equal(t, 0, updates)

	e.Pause()
	updates = 0
	e.mu.Lock()
	current := e.gen
	e.mu.Unlock()

	e.tick(current)
	assert.Equal(t, 0, updates, "ticks are ignored while paused")
	assert.Equal(t, StatePaused, e.State())
}

func TestEngineCallbacks(t *testing.T) {
	e, fake := newTestEngine(Options{})

	var transitions [][2]State
	var updates []time.Duration
	e.OnStateChange(func(oldState, newState State) {
		transitions = append(transitions, [2]State{oldState, newState})
		// Callbacks run outside the lock.
		_ = e.Snapshot()
	})
	e.OnUpdate(func(s Snapshot) {
		updates = append(updates, s.Remaining)
	})

	e.Start(testStart.Add(2*time.Second), time.Second, ModeTotal)
	fake.Advance(3 * time.Second)

	want := [][2]State{
		{StateIdle, StateRunning},
		{StateRunning, StateCompleted},
	}
	assert.Equal(t, want, transitions)
	assert.Equal(t, []time.Duration{2 * time.Second, time.Second, 0}, updates)
}

func TestEngineEvents(t *testing.T) {
	rec := &eventRecorder{}
	e, fake := newTestEngine(Options{Name: "tea", EventLogger: rec})

	e.Start(testStart.Add(3*time.Second), time.Second, ModeTotal)
	fake.Advance(time.Second)
	e.Pause()

	want := []log.Category{
		log.CategoryControl, log.CategoryState, // start
		log.CategoryTick,
		log.CategoryControl, log.CategoryState, // pause
	}
	assert.Equal(t, want, rec.categories())

	start := rec.events[0]
	assert.Equal(t, e.ID(), start.CountdownID)
	assert.Equal(t, "tea", start.Name)
	assert.Equal(t, testStart, start.Timestamp)
	require.NotNil(t, start.Control)
	assert.Equal(t, log.CommandStart, start.Control.Command)
	require.NotNil(t, start.Control.Interval)
	assert.Equal(t, time.Second, *start.Control.Interval)
	assert.Equal(t, "total", start.Control.Mode)

	tick := rec.events[2]
	require.NotNil(t, tick.Tick)
	assert.Equal(t, int64(2000), tick.Tick.RemainingMs)

	pause := rec.events[4]
	require.NotNil(t, pause.StateChange)
	assert.Equal(t, "RUNNING", pause.StateChange.OldState)
	assert.Equal(t, "PAUSED", pause.StateChange.NewState)
}

func TestEngineCascadingBreakdown(t *testing.T) {
	target := time.Date(2026, 5, 3, 13, 0, 0, 0, time.UTC)

	t.Run("calendar", func(t *testing.T) {
		e, _ := newTestEngine(Options{})
		e.Start(target, time.Second, ModeCascading)

		v := e.Snapshot().Values
		assert.Equal(t, float64(2), v.Months)
		assert.Equal(t, float64(2), v.Days)
		assert.Equal(t, float64(1), v.Hours)
		assert.Equal(t, float64(0), v.Years)
	})

	t.Run("fixed", func(t *testing.T) {
		e, _ := newTestEngine(Options{Breakdown: BreakdownFixed})
		e.Start(target, time.Second, ModeCascading)

		s := e.Snapshot()
		assert.Equal(t, timedelta.Cascade(s.Remaining.Milliseconds()), s.Values)
	})
}

func TestEngineTickerScheduler(t *testing.T) {
	e := NewEngine(Options{Logger: discardLogger()})

	done := make(chan struct{})
	e.OnStateChange(func(_, newState State) {
		if newState == StateCompleted {
			close(done)
		}
	})

	e.Start(time.Now().Add(120*time.Millisecond), 20*time.Millisecond, ModeTotal)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown did not complete")
	}
	assert.True(t, e.Snapshot().Values.IsZero())
}
