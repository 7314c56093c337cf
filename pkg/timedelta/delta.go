package timedelta

import "time"

// Breakdown holds one value per unit.
//
// In a cascading breakdown every field is a whole number. In a total
// breakdown fields may be fractional depending on the Rounding used.
type Breakdown struct {
	Milliseconds float64 `json:"milliseconds" yaml:"milliseconds"`
	Seconds      float64 `json:"seconds" yaml:"seconds"`
	Minutes      float64 `json:"minutes" yaml:"minutes"`
	Hours        float64 `json:"hours" yaml:"hours"`
	Days         float64 `json:"days" yaml:"days"`
	Weeks        float64 `json:"weeks" yaml:"weeks"`
	Months       float64 `json:"months" yaml:"months"`
	Years        float64 `json:"years" yaml:"years"`
}

// Get returns the value of a single unit.
func (b Breakdown) Get(u Unit) float64 {
	switch u {
	case Milliseconds:
		return b.Milliseconds
	case Seconds:
		return b.Seconds
	case Minutes:
		return b.Minutes
	case Hours:
		return b.Hours
	case Days:
		return b.Days
	case Weeks:
		return b.Weeks
	case Months:
		return b.Months
	case Years:
		return b.Years
	default:
		return 0
	}
}

// IsZero reports whether every field is zero.
func (b Breakdown) IsZero() bool {
	return b == Breakdown{}
}

// MillisecondsBetween returns the absolute difference between a and b in
// whole milliseconds.
func MillisecondsBetween(a, b time.Time) int64 {
	ms := b.Sub(a).Milliseconds()
	if ms < 0 {
		return -ms
	}
	return ms
}

// UnitDiff returns the difference between a and b expressed in unit u using
// fixed-length division. It is not calendar aware.
func UnitDiff(u Unit, a, b time.Time, r Rounding) float64 {
	return unitValue(MillisecondsBetween(a, b), u, r)
}

func unitValue(ms int64, u Unit, r Rounding) float64 {
	if u == Milliseconds {
		return float64(ms)
	}
	return r.Apply(float64(ms) / float64(u.lengthMs()))
}

// Total returns the total breakdown of ms: every field is the whole delta in
// that unit, independent of the other fields. Negative input counts as zero.
func Total(ms int64, r Rounding) Breakdown {
	if ms < 0 {
		ms = 0
	}
	return Breakdown{
		Milliseconds: float64(ms),
		Seconds:      unitValue(ms, Seconds, r),
		Minutes:      unitValue(ms, Minutes, r),
		Hours:        unitValue(ms, Hours, r),
		Days:         unitValue(ms, Days, r),
		Weeks:        unitValue(ms, Weeks, r),
		Months:       unitValue(ms, Months, r),
		Years:        unitValue(ms, Years, r),
	}
}

// MonthsDiff returns the calendar month difference between a and b:
// (later.month - earlier.month) + 12*(later.year - earlier.year).
// Day of month is ignored. The result is never negative.
func MonthsDiff(a, b time.Time) int {
	a, b = ordered(a, b)
	return int(b.Month()-a.Month()) + 12*(b.Year()-a.Year())
}

// YearsDiff returns the calendar year difference between a and b. Month and
// day are ignored, so Dec 31 and Jan 1 of the next year are one year apart.
func YearsDiff(a, b time.Time) int {
	d := a.UTC().Year() - b.UTC().Year()
	if d < 0 {
		return -d
	}
	return d
}

// Cascade returns the fixed-bucket cascading breakdown of ms: 1000ms
// seconds, 60s minutes, 60m hours, 24h days, 30-day months and 12-month
// years. Weeks is the number of whole weeks in the days field. Negative
// input counts as zero.
func Cascade(ms int64) Breakdown {
	if ms < 0 {
		ms = 0
	}
	days := ms / Days.lengthMs() % 30
	return Breakdown{
		Milliseconds: float64(ms % 1000),
		Seconds:      float64(ms / Seconds.lengthMs() % 60),
		Minutes:      float64(ms / Minutes.lengthMs() % 60),
		Hours:        float64(ms / Hours.lengthMs() % 24),
		Days:         float64(days),
		Weeks:        float64(days / 7),
		Months:       float64(ms / Months.lengthMs() % 12),
		Years:        float64(ms / Years.lengthMs()),
	}
}

// CascadeBetween returns the calendar cascading breakdown between a and b.
//
// Whole calendar months are counted first (a month added to Jan 31 lands on
// the last day of February), split into years and months. The rest is split
// into whole days and the sub-day remainder. Weeks is the number of whole
// weeks in the days field; days are not reduced by it.
func CascadeBetween(a, b time.Time) Breakdown {
	a, b = ordered(a, b)

	months := MonthsDiff(a, b)
	anchor := addMonths(a, months)
	if anchor.After(b) {
		months--
		anchor = addMonths(a, months)
	}

	rest := b.Sub(anchor)
	days := int64(rest / Day)
	ms := (rest % Day).Milliseconds()

	return Breakdown{
		Milliseconds: float64(ms % 1000),
		Seconds:      float64(ms / Seconds.lengthMs() % 60),
		Minutes:      float64(ms / Minutes.lengthMs() % 60),
		Hours:        float64(ms / Hours.lengthMs()),
		Days:         float64(days),
		Weeks:        float64(days / 7),
		Months:       float64(months % 12),
		Years:        float64(months / 12),
	}
}

// ordered returns a and b in UTC with the earlier instant first.
func ordered(a, b time.Time) (time.Time, time.Time) {
	a, b = a.UTC(), b.UTC()
	if a.After(b) {
		return b, a
	}
	return a, b
}

// addMonths adds n (>= 0) calendar months to t, clamping the day to the end
// of the resulting month. t must be in UTC.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	idx := int(m) - 1 + n
	year := y + idx/12
	month := time.Month(idx%12 + 1)

	if last := daysIn(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, hh, mm, ss, t.Nanosecond(), time.UTC)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
