package interactive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/countdown-go/countdown/pkg/countdown"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// FormatSnapshot renders one countdown as a single status line.
func FormatSnapshot(s countdown.Snapshot) string {
	name := s.Name
	if name == "" {
		name = shortID(s.ID)
	}
	return fmt.Sprintf("%-12s %-9s %s", name, s.State, FormatValues(s.Mode, s.Values))
}

// FormatValues renders a breakdown. Cascading values read like a clock with
// calendar units in front; total values list every unit.
func FormatValues(mode countdown.Mode, v timedelta.Breakdown) string {
	if mode == countdown.ModeTotal {
		parts := make([]string, 0, len(timedelta.Units))
		for _, u := range timedelta.Units {
			parts = append(parts, unitLabel(u)+"="+strconv.FormatFloat(v.Get(u), 'f', -1, 64))
		}
		return strings.Join(parts, " ")
	}

	var b strings.Builder
	if v.Years > 0 {
		fmt.Fprintf(&b, "%.0fy ", v.Years)
	}
	if v.Years > 0 || v.Months > 0 {
		fmt.Fprintf(&b, "%.0fmo ", v.Months)
	}
	if v.Days > 0 {
		fmt.Fprintf(&b, "%.0fd ", v.Days)
	}
	fmt.Fprintf(&b, "%02.0f:%02.0f:%02.0f.%03.0f", v.Hours, v.Minutes, v.Seconds, v.Milliseconds)
	if v.Weeks > 0 {
		fmt.Fprintf(&b, " (%.0fw)", v.Weeks)
	}
	return b.String()
}

func unitLabel(u timedelta.Unit) string {
	switch u {
	case timedelta.Milliseconds:
		return "ms"
	case timedelta.Seconds:
		return "s"
	case timedelta.Minutes:
		return "m"
	case timedelta.Hours:
		return "h"
	case timedelta.Days:
		return "d"
	case timedelta.Weeks:
		return "w"
	case timedelta.Months:
		return "mo"
	case timedelta.Years:
		return "y"
	default:
		return u.String()
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
