package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/countdown-go/countdown/pkg/log"
)

func TestViewFormatsEvents(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"2026-03-01T12:00:00.000Z [aaaaaaaa] tea CONTROL START",
		"Interval: 1s",
		"Mode: total",
		"IDLE -> RUNNING",
		"Remaining: 1s",
		"Reason: elapsed",
		"[bbbbbbbb] launch WARNING INVALID_INTERVAL",
		"invalid interval -5ms",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestViewFilterByCategory(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	cat := log.CategoryTick
	var buf bytes.Buffer
	if err := RunView(path, log.Filter{Category: &cat}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if got := strings.Count(output, " TICK Tick"); got != 2 {
		t.Errorf("tick headers = %d, want 2", got)
	}
	if strings.Contains(output, "CONTROL") {
		t.Error("unexpected CONTROL event in filtered output")
	}
}

func TestViewFilterByShortID(t *testing.T) {
	path := createTestLogFile(t, sessionEvents())

	var buf bytes.Buffer
	if err := RunView(path, log.Filter{CountdownID: "bbbbbbbb"}, &buf); err != nil {
		t.Fatalf("RunView failed: %v", err)
	}

	output := buf.String()
	if strings.Contains(output, "tea") {
		t.Error("unexpected events from another countdown")
	}
	if !strings.Contains(output, "launch") {
		t.Error("expected launch warning in output")
	}
}

func TestViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView("/nonexistent/file.clog", log.Filter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Category
		wantErr bool
	}{
		{"control", log.CategoryControl, false},
		{"STATE", log.CategoryState, false},
		{"Tick", log.CategoryTick, false},
		{"warning", log.CategoryWarning, false},
		{"error", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestShortenID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{idA, "aaaaaaaa"},
		{"abc", "abc"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := shortenID(tt.input); got != tt.want {
			t.Errorf("shortenID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
