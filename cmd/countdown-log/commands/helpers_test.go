package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	idA = "aaaaaaaa-1111-4111-8111-111111111111"
	idB = "bbbbbbbb-2222-4222-8222-222222222222"
)

// createTestLogFile writes events to a temporary .clog file.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	return path
}

// sessionEvents is a short countdown run: start, two ticks, completion,
// plus a warning from a second countdown.
func sessionEvents() []log.Event {
	target := testTime.Add(2 * time.Second)
	interval := time.Second
	return []log.Event{
		{
			Timestamp: testTime, CountdownID: idA, Name: "tea", Category: log.CategoryControl,
			Control: &log.ControlEvent{Command: log.CommandStart, Target: &target, Interval: &interval, Mode: "total"},
		},
		{
			Timestamp: testTime, CountdownID: idA, Name: "tea", Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "IDLE", NewState: "RUNNING", Reason: "START"},
		},
		{
			Timestamp: testTime.Add(time.Second), CountdownID: idA, Name: "tea", Category: log.CategoryTick,
			Tick: &log.TickEvent{RemainingMs: 1000, Reference: testTime.Add(time.Second)},
		},
		{
			Timestamp: testTime.Add(2 * time.Second), CountdownID: idA, Name: "tea", Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{OldState: "RUNNING", NewState: "COMPLETED", Reason: "elapsed"},
		},
		{
			Timestamp: testTime.Add(2 * time.Second), CountdownID: idA, Name: "tea", Category: log.CategoryTick,
			Tick: &log.TickEvent{RemainingMs: 0, Reference: target},
		},
		{
			Timestamp: testTime.Add(3 * time.Second), CountdownID: idB, Name: "launch", Category: log.CategoryWarning,
			Warning: &log.WarningEvent{Code: log.WarnInvalidInterval, Message: "invalid interval -5ms, using default 1s"},
		},
	}
}
