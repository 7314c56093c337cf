// Package commands implements the countdown-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

// timestampFormat is used by view and export for every event timestamp.
const timestampFormat = "2006-01-02T15:04:05.000Z"

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [id] name CATEGORY Type
	ts := event.Timestamp.UTC().Format(timestampFormat)
	id := shortenID(event.CountdownID)

	name := event.Name
	if name == "" {
		name = "-"
	}

	fmt.Fprintf(w, "%s [%s] %s %s %s\n", ts, id, name, event.Category.String(), eventType(event))

	switch {
	case event.Control != nil:
		formatControlDetails(w, event.Control)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Tick != nil:
		formatTickDetails(w, event.Tick)
	case event.Warning != nil:
		fmt.Fprintf(w, "  %s\n", event.Warning.Message)
	}

	fmt.Fprintln(w) // Blank line between events
}

// eventType returns a short label for the event payload.
func eventType(event log.Event) string {
	switch {
	case event.Control != nil:
		return event.Control.Command.String()
	case event.StateChange != nil:
		return event.StateChange.NewState
	case event.Tick != nil:
		return "Tick"
	case event.Warning != nil:
		return event.Warning.Code.String()
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a countdown ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatControlDetails(w io.Writer, c *log.ControlEvent) {
	if c.Target != nil {
		fmt.Fprintf(w, "  Target: %s\n", c.Target.UTC().Format(time.RFC3339Nano))
	}
	if c.Interval != nil {
		fmt.Fprintf(w, "  Interval: %s\n", *c.Interval)
	}
	if c.Mode != "" {
		fmt.Fprintf(w, "  Mode: %s\n", c.Mode)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatTickDetails(w io.Writer, tick *log.TickEvent) {
	fmt.Fprintf(w, "  Remaining: %s\n", time.Duration(tick.RemainingMs)*time.Millisecond)
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	for _, c := range log.Categories {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("invalid category: %s (must be control, state, tick, or warning)", s)
}

// ParseTimeFlag parses an RFC 3339 time flag. An empty string yields nil.
func ParseTimeFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}

// RunView writes every event matching filter to output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
