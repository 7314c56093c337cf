// Package countdown implements countdown engines that periodically recompute
// the time remaining until a target instant.
//
// # Engine Lifecycle
//
// An Engine starts Idle. Start arms a repeating timer and moves it to
// Running; every tick re-reads the clock and recomputes the remaining time.
// When the remaining time reaches zero the engine cancels its own timer and
// becomes Completed.
//
//	Idle --Start--> Running --tick (delta <= 0)--> Completed
//	                Running --Pause--> Paused --Resume--> Running | Completed
//	any   --Stop--> Completed
//	any   --Start--> Running | Completed
//
// Pause freezes the published values at the last tick. Resume measures
// against the live clock again, so a date countdown that was paused for a
// minute shows a minute less on resume, and a countdown whose target passed
// while paused completes immediately.
//
// # Fail-Soft Inputs
//
// Start never fails. A missing or past target completes the countdown
// immediately, and a non-positive interval is replaced by DefaultInterval.
// Both cases are reported as warnings through slog and the event logger.
//
// # Timers
//
// Each Engine owns at most one scheduled timer. Every transition that arms a
// timer cancels the previous one first, and ticks delivered late by a
// cancelled timer are discarded. Drift is not compensated: each tick
// measures against the clock, so late ticks self-correct.
//
// # Number Countdowns
//
// NumberCountdown counts down a duration measured from its creation. Unlike
// a date countdown it resumes from the remaining time it had when paused,
// and it can be restarted.
//
// # Outputs
//
// Consumers read an immutable Snapshot, either on demand or through
// OnUpdate, which fires after every transition and tick.
package countdown
