package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes countdown events to an slog.Logger.
// Warnings are logged at Warn level, everything else at Debug.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("countdown_id", event.CountdownID),
		slog.String("category", event.Category.String()),
	}
	if event.Name != "" {
		attrs = append(attrs, slog.String("name", event.Name))
	}

	level := slog.LevelDebug

	switch {
	case event.Control != nil:
		attrs = append(attrs, slog.String("command", event.Control.Command.String()))
		if event.Control.Target != nil {
			attrs = append(attrs, slog.Time("target", *event.Control.Target))
		}
		if event.Control.Interval != nil {
			attrs = append(attrs, slog.Duration("interval", *event.Control.Interval))
		}
		if event.Control.Mode != "" {
			attrs = append(attrs, slog.String("mode", event.Control.Mode))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Tick != nil:
		attrs = append(attrs,
			slog.Int64("remaining_ms", event.Tick.RemainingMs),
			slog.Time("reference", event.Tick.Reference),
		)
	case event.Warning != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("code", event.Warning.Code.String()),
			slog.String("warning", event.Warning.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "countdown", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
