package config

import (
	"errors"
	"time"

	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// Validation errors. They are returned as the Cause of a LoadError.
var (
	ErrNoCountdowns  = errors.New("no countdowns defined")
	ErrMissingTarget = errors.New("exactly one of until or in is required")
	ErrDuplicateName = errors.New("duplicate countdown name")
	ErrEmptyName     = errors.New("countdown name is required")
)

// File is a countdown preset file.
type File struct {
	// Defaults apply to every countdown that does not override them.
	Defaults Defaults `yaml:"defaults"`

	// Countdowns are the presets, started in file order.
	Countdowns []Entry `yaml:"countdowns"`
}

// Defaults holds file-wide settings.
type Defaults struct {
	Interval  string `yaml:"interval,omitempty"`
	Mode      string `yaml:"mode,omitempty"`
	Round     string `yaml:"round,omitempty"`
	Breakdown string `yaml:"breakdown,omitempty"`
}

// Entry is one countdown in a preset file.
type Entry struct {
	Name string `yaml:"name"`

	// Until is an RFC 3339 target instant.
	Until string `yaml:"until,omitempty"`

	// In is a duration measured from load time, such as "3m" or "90s".
	In string `yaml:"in,omitempty"`

	// Interval is a Go duration string or a bare number of milliseconds.
	Interval string `yaml:"interval,omitempty"`
	Mode     string `yaml:"mode,omitempty"`
	Round    string `yaml:"round,omitempty"`
}

// Preset is a resolved Entry, ready to be added to a Manager.
type Preset struct {
	Name string

	// Target is set for until entries, Duration for in entries.
	// FromDuration records which one the entry gave.
	Target       time.Time
	Duration     time.Duration
	FromDuration bool

	Interval time.Duration
	Mode     countdown.Mode
	Rounding timedelta.Rounding
}

// IsNumber reports whether the preset is a duration countdown.
func (p Preset) IsNumber() bool {
	return p.FromDuration
}

// LoadError provides details about a preset file error.
type LoadError struct {
	// File is the path to the file that failed to load (empty when parsing
	// bytes).
	File string

	// Message describes the error.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = e.File + ": " + msg
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
