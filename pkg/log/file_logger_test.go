package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 14, 15, 9, 26, 535000000, time.UTC)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.clog")

	logger, err := NewFileLogger(path)
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

func TestFileLoggerRoundTrip(t *testing.T) {
	target := testTime.Add(time.Hour)
	interval := 250 * time.Millisecond

	events := []Event{
		{
			Timestamp:   testTime,
			CountdownID: "0b8f2c1e-5d4a-4f3b-9a61-2f7c8e9d0a1b",
			Name:        "launch",
			Category:    CategoryControl,
			Control: &ControlEvent{
				Command:  CommandStart,
				Target:   &target,
				Interval: &interval,
				Mode:     "total",
			},
		},
		{
			Timestamp:   testTime.Add(interval),
			CountdownID: "0b8f2c1e-5d4a-4f3b-9a61-2f7c8e9d0a1b",
			Category:    CategoryTick,
			Tick:        &TickEvent{RemainingMs: 3599750, Reference: testTime.Add(interval)},
		},
		{
			Timestamp:   testTime.Add(interval),
			CountdownID: "0b8f2c1e-5d4a-4f3b-9a61-2f7c8e9d0a1b",
			Category:    CategoryWarning,
			Warning:     &WarningEvent{Code: WarnInvalidInterval, Message: "using 1s"},
		},
	}

	path := createTestLogFile(t, events)

	read, err := ReadAll(path, Filter{})
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(read) != len(events) {
		t.Fatalf("got %d events, want %d", len(read), len(events))
	}

	start := read[0]
	if start.Name != "launch" || start.Control == nil {
		t.Fatalf("first event = %+v, want named control event", start)
	}
	if start.Control.Command != CommandStart {
		t.Errorf("Command = %v, want START", start.Control.Command)
	}
	if start.Control.Target == nil || !start.Control.Target.Equal(target) {
		t.Errorf("Target = %v, want %v", start.Control.Target, target)
	}
	if start.Control.Interval == nil || *start.Control.Interval != interval {
		t.Errorf("Interval = %v, want %v", start.Control.Interval, interval)
	}
	if !start.Timestamp.Equal(testTime) {
		t.Errorf("Timestamp = %v, want %v", start.Timestamp, testTime)
	}

	if read[1].Tick == nil || read[1].Tick.RemainingMs != 3599750 {
		t.Errorf("tick event = %+v, want RemainingMs 3599750", read[1].Tick)
	}
	if read[2].Warning == nil || read[2].Warning.Code != WarnInvalidInterval {
		t.Errorf("warning event = %+v, want INVALID_INTERVAL", read[2].Warning)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "append.clog")

	for _, id := range []string{"first", "second"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger failed: %v", err)
		}
		logger.Log(Event{Timestamp: testTime, CountdownID: id, Category: CategoryState,
			StateChange: &StateChangeEvent{NewState: "RUNNING"}})
		if logger.Written() != 1 {
			t.Errorf("Written() = %d, want 1", logger.Written())
		}
		logger.Close()
	}

	read, err := ReadAll(path, Filter{})
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(read) != 2 || read[0].CountdownID != "first" || read[1].CountdownID != "second" {
		t.Errorf("read = %+v, want first then second", read)
	}
}

func TestFileLoggerCloseIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "closed.clog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// Logging after close is silently ignored.
	logger.Log(Event{Timestamp: testTime, CountdownID: "late"})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("file size = %d, want 0", info.Size())
	}
}

func TestFileLoggerConcurrent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.clog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				logger.Log(Event{Timestamp: testTime, CountdownID: "c", Category: CategoryTick,
					Tick: &TickEvent{RemainingMs: int64(n*100 + j)}})
			}
		}(i)
	}
	wg.Wait()
	logger.Close()

	r, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer r.Close()

	count := 0
	for {
		_, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next failed after %d events: %v", count, err)
		}
		count++
	}
	if count != 200 {
		t.Errorf("read %d events, want 200", count)
	}
}

func TestNewFileLoggerBadPath(t *testing.T) {
	_, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.clog"))
	if err == nil {
		t.Error("NewFileLogger with missing directory should fail")
	}
}
