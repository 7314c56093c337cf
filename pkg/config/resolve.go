package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// Presets resolves every entry against the file defaults. Unusable
// intervals, modes and roundings are logged as warnings and replaced by
// their defaults. An until or in value that cannot be parsed is an error.
func (f *File) Presets(logger *slog.Logger) ([]Preset, error) {
	if logger == nil {
		logger = slog.Default()
	}

	presets := make([]Preset, 0, len(f.Countdowns))
	for _, c := range f.Countdowns {
		p := Preset{
			Name:     c.Name,
			Interval: resolveInterval(logger, c.Name, first(c.Interval, f.Defaults.Interval)),
			Mode:     resolveMode(logger, c.Name, first(c.Mode, f.Defaults.Mode)),
			Rounding: resolveRounding(logger, c.Name, first(c.Round, f.Defaults.Round)),
		}

		if c.Until != "" {
			target, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(c.Until))
			if err != nil {
				return nil, &LoadError{
					Message: fmt.Sprintf("countdown %q: invalid until", c.Name),
					Cause:   err,
				}
			}
			p.Target = target
		} else {
			d, err := time.ParseDuration(strings.TrimSpace(c.In))
			if err != nil {
				return nil, &LoadError{
					Message: fmt.Sprintf("countdown %q: invalid in", c.Name),
					Cause:   err,
				}
			}
			p.Duration = d
			p.FromDuration = true
		}

		presets = append(presets, p)
	}
	return presets, nil
}

// Options returns base with the file-wide breakdown strategy applied.
func (f *File) Options(base countdown.Options, logger *slog.Logger) countdown.Options {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := countdown.ParseBreakdown(f.Defaults.Breakdown)
	if err != nil {
		logger.Warn("unknown breakdown, using calendar", "breakdown", f.Defaults.Breakdown)
	}
	base.Breakdown = b
	return base
}

// Apply adds and starts every preset on m, in order.
func Apply(m *countdown.Manager, presets []Preset) error {
	for _, p := range presets {
		opts := m.OptionsFor(p.Name)
		opts.Interval = p.Interval
		opts.Mode = p.Mode
		opts.Rounding = p.Rounding

		if p.IsNumber() {
			nc := countdown.NewNumberCountdown(p.Duration, opts)
			if err := m.Put(p.Name, nc); err != nil {
				return fmt.Errorf("add %q: %w", p.Name, err)
			}
			nc.Start()
			continue
		}

		e := countdown.NewEngine(opts)
		if err := m.Put(p.Name, e); err != nil {
			return fmt.Errorf("add %q: %w", p.Name, err)
		}
		e.Start(p.Target, p.Interval, p.Mode)
	}
	return nil
}

// ParseInterval parses a Go duration string ("250ms", "1s") or a bare
// number of milliseconds ("250").
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

func resolveInterval(logger *slog.Logger, name, s string) time.Duration {
	if s == "" {
		return countdown.DefaultInterval
	}
	d, err := ParseInterval(s)
	if err != nil || d <= 0 {
		logger.Warn("invalid interval, using default",
			"countdown", name, "interval", s, "default", countdown.DefaultInterval)
		return countdown.DefaultInterval
	}
	return d
}

func resolveMode(logger *slog.Logger, name, s string) countdown.Mode {
	m, err := countdown.ParseMode(s)
	if err != nil {
		logger.Warn("unknown mode, using cascading", "countdown", name, "mode", s)
	}
	return m
}

func resolveRounding(logger *slog.Logger, name, s string) timedelta.Rounding {
	r, err := timedelta.ParseRounding(s)
	if err != nil {
		logger.Warn("unknown rounding, using none", "countdown", name, "round", s)
	}
	return r
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
