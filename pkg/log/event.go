package log

import "time"

// Event represents one captured countdown event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred, read from the countdown's clock.
	Timestamp time.Time `cbor:"1,keyasint"`

	// CountdownID uniquely identifies the countdown instance (UUID).
	CountdownID string `cbor:"2,keyasint"`

	// Name is the optional human-readable countdown name.
	Name string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Type-specific payload (one of these will be set).
	Control     *ControlEvent     `cbor:"10,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"11,keyasint,omitempty"`
	Tick        *TickEvent        `cbor:"12,keyasint,omitempty"`
	Warning     *WarningEvent     `cbor:"13,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryControl indicates a lifecycle command issued by the caller.
	CategoryControl Category = 0
	// CategoryState indicates a state transition.
	CategoryState Category = 1
	// CategoryTick indicates a periodic recomputation.
	CategoryTick Category = 2
	// CategoryWarning indicates an input that was corrected or rejected.
	CategoryWarning Category = 3
)

// Categories lists every category in display order.
var Categories = []Category{CategoryControl, CategoryState, CategoryTick, CategoryWarning}

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryControl:
		return "CONTROL"
	case CategoryState:
		return "STATE"
	case CategoryTick:
		return "TICK"
	case CategoryWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// ControlEvent captures a lifecycle command.
type ControlEvent struct {
	// Command issued.
	Command Command `cbor:"1,keyasint"`

	// Target is the resolved target instant (start and restart only).
	Target *time.Time `cbor:"2,keyasint,omitempty"`

	// Interval is the resolved tick interval (start and restart only).
	Interval *time.Duration `cbor:"3,keyasint,omitempty"`

	// Mode is the output mode name (start and restart only).
	Mode string `cbor:"4,keyasint,omitempty"`
}

// Command identifies a lifecycle command.
type Command uint8

const (
	CommandStart   Command = 0
	CommandPause   Command = 1
	CommandResume  Command = 2
	CommandStop    Command = 3
	CommandRestart Command = 4
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandStart:
		return "START"
	case CommandPause:
		return "PAUSE"
	case CommandResume:
		return "RESUME"
	case CommandStop:
		return "STOP"
	case CommandRestart:
		return "RESTART"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a countdown state transition.
type StateChangeEvent struct {
	// OldState is the previous state.
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// TickEvent captures one recomputation of the remaining time.
type TickEvent struct {
	// RemainingMs is the remaining delta after the tick.
	RemainingMs int64 `cbor:"1,keyasint"`

	// Reference is the reference instant the delta was measured from.
	Reference time.Time `cbor:"2,keyasint"`
}

// WarningEvent captures an input that was substituted with a default.
type WarningEvent struct {
	// Code identifies the warning.
	Code WarningCode `cbor:"1,keyasint"`

	// Message is a human-readable description.
	Message string `cbor:"2,keyasint"`
}

// WarningCode identifies the kind of corrected input.
type WarningCode uint8

const (
	// WarnInvalidTarget: target missing or not in the future.
	WarnInvalidTarget WarningCode = 0
	// WarnInvalidInterval: tick interval not positive.
	WarnInvalidInterval WarningCode = 1
	// WarnInvalidDuration: number countdown duration not positive.
	WarnInvalidDuration WarningCode = 2
)

// String returns the warning code name.
func (w WarningCode) String() string {
	switch w {
	case WarnInvalidTarget:
		return "INVALID_TARGET"
	case WarnInvalidInterval:
		return "INVALID_INTERVAL"
	case WarnInvalidDuration:
		return "INVALID_DURATION"
	default:
		return "UNKNOWN"
	}
}
