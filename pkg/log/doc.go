// Package log provides structured event capture for countdowns.
//
// This package defines the Logger interface and Event types for recording
// what a countdown did: commands it received, state transitions, ticks and
// corrected inputs. It is separate from operational logging (slog) - event
// capture provides a complete machine-readable trace for debugging.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	opts.EventLogger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: write to binary file
//	opts.EventLogger, _ = log.NewFileLogger("/tmp/launch.clog")
//
//	// Both: use MultiLogger
//	opts.EventLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Event files use CBOR encoding with the .clog extension. The countdown-log
// CLI tool provides viewing, export and statistics.
package log
