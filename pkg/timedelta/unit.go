package timedelta

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Fixed unit lengths.
const (
	Day   = 24 * time.Hour
	Week  = 7 * Day
	Month = 30 * Day
	Year  = 12 * Month
)

// Unit identifies one field of a breakdown.
type Unit uint8

const (
	Milliseconds Unit = iota
	Seconds
	Minutes
	Hours
	Days
	Weeks
	Months
	Years
)

// Units lists every unit from smallest to largest.
var Units = []Unit{Milliseconds, Seconds, Minutes, Hours, Days, Weeks, Months, Years}

// String returns the unit name.
func (u Unit) String() string {
	switch u {
	case Milliseconds:
		return "milliseconds"
	case Seconds:
		return "seconds"
	case Minutes:
		return "minutes"
	case Hours:
		return "hours"
	case Days:
		return "days"
	case Weeks:
		return "weeks"
	case Months:
		return "months"
	case Years:
		return "years"
	default:
		return "unknown"
	}
}

// Length returns the fixed length of the unit. Months and years use the
// 30-day month and 12-month year of fixed-length arithmetic.
func (u Unit) Length() time.Duration {
	switch u {
	case Milliseconds:
		return time.Millisecond
	case Seconds:
		return time.Second
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	case Days:
		return Day
	case Weeks:
		return Week
	case Months:
		return Month
	case Years:
		return Year
	default:
		return 0
	}
}

// lengthMs returns the unit length in milliseconds.
func (u Unit) lengthMs() int64 {
	return u.Length().Milliseconds()
}

// Rounding selects how fractional unit values are reported.
type Rounding uint8

const (
	// RoundNone keeps the fractional value (90 minutes = 1.5 hours).
	RoundNone Rounding = iota

	// RoundNearest rounds half away from zero (90 minutes = 2 hours).
	RoundNearest

	// RoundDown truncates toward zero (90 minutes = 1 hour).
	RoundDown
)

// String returns the rounding name.
func (r Rounding) String() string {
	switch r {
	case RoundNone:
		return "none"
	case RoundNearest:
		return "nearest"
	case RoundDown:
		return "down"
	default:
		return "unknown"
	}
}

// ParseRounding parses a rounding name (none, nearest, down).
func ParseRounding(s string) (Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return RoundNone, nil
	case "nearest", "round":
		return RoundNearest, nil
	case "down", "floor", "truncate":
		return RoundDown, nil
	default:
		return RoundNone, fmt.Errorf("unknown rounding: %q (valid: none, nearest, down)", s)
	}
}

// Apply rounds v according to r.
func (r Rounding) Apply(v float64) float64 {
	switch r {
	case RoundNearest:
		return math.Round(v)
	case RoundDown:
		return math.Trunc(v)
	default:
		return v
	}
}
