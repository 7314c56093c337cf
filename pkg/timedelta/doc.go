// Package timedelta converts the difference between two instants into
// per-unit values.
//
// Two breakdown shapes are supported:
//
//   - Cascading: every field is what remains after the next larger unit has
//     been removed, the way a clock face or a calendar reads ("1 month,
//     3 days, 04:05:06"). CascadeBetween walks real calendar months; Cascade
//     uses fixed 30-day months and 12-month years for a bare millisecond
//     count that has no calendar anchor.
//   - Total: every field is the whole difference expressed in that unit,
//     independently of the others. Total hours for a 90 minute delta is 1.5,
//     never reduced modulo 24.
//
// # Calendar Arithmetic
//
// Calendar fields are read in UTC. Days are therefore always 24 hours long
// and the hour-and-below fields of a cascading breakdown are exactly the
// sub-day remainder of the delta. Timezone and locale handling are out of
// scope.
//
// All functions are pure and total.
package timedelta
