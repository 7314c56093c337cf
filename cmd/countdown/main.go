// Command countdown runs one or more countdowns in the terminal.
//
// Usage:
//
//	countdown [flags]
//
// Flags:
//
//	-until string       Target instant (RFC3339)
//	-in duration        Count down a duration instead of a target instant
//	-name string        Name of the countdown given by -until or -in (default "countdown")
//	-interval string    Tick interval, Go duration or milliseconds (default "1s")
//	-mode string        Output mode: cascading, total (default "cascading")
//	-round string       Rounding for total mode: none, nearest, down (default "none")
//	-breakdown string   Cascading strategy: calendar, fixed (default "calendar")
//	-config string      YAML preset file with additional countdowns
//	-event-log string   File path for countdown event logging (CBOR format)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-interactive        Run an interactive shell
//
// Examples:
//
//	# Count down to the new year
//	countdown -until 2027-01-01T00:00:00Z
//
//	# A tea timer with fractional totals
//	countdown -in 3m -mode total -interval 250ms
//
//	# Run presets interactively and capture events
//	countdown -config presets.yaml -interactive -event-log run.clog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/countdown-go/countdown/cmd/countdown/interactive"
	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/countdown"
	countdownlog "github.com/countdown-go/countdown/pkg/log"
	"github.com/countdown-go/countdown/pkg/timedelta"
)

// Config holds the command configuration.
type Config struct {
	Until       string
	In          time.Duration
	Name        string
	Interval    string
	Mode        string
	Round       string
	Breakdown   string
	ConfigFile  string
	EventLog    string
	LogLevel    string
	Interactive bool
}

var cfg Config

func init() {
	flag.StringVar(&cfg.Until, "until", "", "Target instant (RFC3339)")
	flag.DurationVar(&cfg.In, "in", 0, "Count down a duration instead of a target instant")
	flag.StringVar(&cfg.Name, "name", "countdown", "Name of the countdown given by -until or -in")
	flag.StringVar(&cfg.Interval, "interval", "1s", "Tick interval, Go duration or milliseconds")
	flag.StringVar(&cfg.Mode, "mode", "cascading", "Output mode: cascading, total")
	flag.StringVar(&cfg.Round, "round", "none", "Rounding for total mode: none, nearest, down")
	flag.StringVar(&cfg.Breakdown, "breakdown", "calendar", "Cascading strategy: calendar, fixed")
	flag.StringVar(&cfg.ConfigFile, "config", "", "YAML preset file with additional countdowns")
	flag.StringVar(&cfg.EventLog, "event-log", "", "File path for countdown event logging (CBOR format)")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&cfg.Interactive, "interactive", false, "Run an interactive shell")
}

func main() {
	flag.Parse()

	logger := setupLogging(cfg.LogLevel, os.Stderr)

	if cfg.Until == "" && cfg.In == 0 && cfg.ConfigFile == "" {
		fmt.Fprintln(os.Stderr, "Error: one of -until, -in or -config is required")
		flag.Usage()
		os.Exit(1)
	}
	if err := validateFlags(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	opts, err := buildOptions(logger)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var presetFile *config.File
	if cfg.ConfigFile != "" {
		presetFile, err = config.Load(cfg.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load presets: %v", err)
		}
		applyFlagDefaults(presetFile)
		opts = presetFile.Options(opts, logger)
	}

	// Event capture
	var fileLogger *countdownlog.FileLogger
	if cfg.EventLog != "" {
		fileLogger, err = countdownlog.NewFileLogger(cfg.EventLog)
		if err != nil {
			log.Fatalf("Failed to create event logger: %v", err)
		}
		defer fileLogger.Close()
		log.Printf("Event logging to: %s", cfg.EventLog)
	}
	opts.EventLogger = eventLogger(fileLogger, logger, cfg.LogLevel == "debug")

	m := countdown.NewManager(opts)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Output goes through the shell in interactive mode so it does not
	// overwrite the prompt.
	var (
		out   io.Writer = os.Stdout
		shell *interactive.Shell
	)
	if cfg.Interactive {
		shell, err = interactive.New(m)
		if err != nil {
			log.Fatalf("Failed to start interactive mode: %v", err)
		}
		out = shell.Stdout()
		log.SetOutput(shell.Stderr())
	}

	watch := newCompletionWatch(m, cancel)
	m.OnCompleted(func(name string, s countdown.Snapshot) {
		fmt.Fprintf(out, "%s: done\n", name)
		if !cfg.Interactive {
			watch.check()
		}
	})

	if err := addCountdowns(m, presetFile, logger); err != nil {
		log.Fatalf("Failed to add countdowns: %v", err)
	}
	if !cfg.Interactive {
		watch.arm()
	}

	r := newRenderer(out, !cfg.Interactive && m.Count() == 1)
	for _, name := range m.Names() {
		if cd, ok := m.Get(name); ok {
			cd.OnUpdate(r.update)
			r.update(cd.Snapshot())
		}
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if shell != nil {
		go shell.Run(ctx, cancel)
	}

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	m.StopAll()
	if fileLogger != nil {
		log.Printf("Captured %d events", fileLogger.Written())
	}
}

// validateFlags checks the flag combinations main cannot run with.
func validateFlags() error {
	if cfg.Until != "" && cfg.In != 0 {
		return errors.New("-until and -in are mutually exclusive")
	}
	if cfg.In < 0 {
		return fmt.Errorf("-in must be positive, got %v", cfg.In)
	}
	return nil
}

// setupLogging configures the standard logger flags and returns the slog
// logger handed to the countdowns.
func setupLogging(level string, w io.Writer) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var lvl slog.Level
	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		lvl = slog.LevelDebug
	case "warn":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelWarn
	case "error":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// eventLogger combines the file logger with an slog mirror in debug mode.
func eventLogger(file *countdownlog.FileLogger, logger *slog.Logger, debug bool) countdownlog.Logger {
	var loggers []countdownlog.Logger
	if file != nil {
		loggers = append(loggers, file)
	}
	if debug {
		loggers = append(loggers, countdownlog.NewSlogAdapter(logger))
	}
	if len(loggers) == 0 {
		return countdownlog.NoopLogger{}
	}
	return countdownlog.NewMultiLogger(loggers...)
}

// buildOptions turns the rounding and breakdown flags into manager options.
func buildOptions(logger *slog.Logger) (countdown.Options, error) {
	rounding, err := timedelta.ParseRounding(cfg.Round)
	if err != nil {
		return countdown.Options{}, err
	}
	breakdown, err := countdown.ParseBreakdown(cfg.Breakdown)
	if err != nil {
		return countdown.Options{}, err
	}
	return countdown.Options{
		Rounding:  rounding,
		Breakdown: breakdown,
		Logger:    logger,
	}, nil
}

// applyFlagDefaults fills file defaults the preset file leaves empty from
// the command-line flags.
func applyFlagDefaults(f *config.File) {
	if f.Defaults.Interval == "" {
		f.Defaults.Interval = cfg.Interval
	}
	if f.Defaults.Mode == "" {
		f.Defaults.Mode = cfg.Mode
	}
	if f.Defaults.Round == "" {
		f.Defaults.Round = cfg.Round
	}
	if f.Defaults.Breakdown == "" {
		f.Defaults.Breakdown = cfg.Breakdown
	}
}

// addCountdowns starts the preset file countdowns and the one given by
// -until or -in. Invalid interval and mode flags fall back like presets do.
func addCountdowns(m *countdown.Manager, presetFile *config.File, logger *slog.Logger) error {
	var presets []config.Preset

	if presetFile != nil {
		ps, err := presetFile.Presets(logger)
		if err != nil {
			return err
		}
		presets = append(presets, ps...)
	}

	if cfg.Until != "" || cfg.In != 0 {
		single := config.File{
			Countdowns: []config.Entry{{
				Name:     cfg.Name,
				Until:    cfg.Until,
				In:       durationString(cfg.In),
				Interval: cfg.Interval,
				Mode:     cfg.Mode,
				Round:    cfg.Round,
			}},
		}
		ps, err := single.Presets(logger)
		if err != nil {
			return err
		}
		presets = append(presets, ps...)
	}

	return config.Apply(m, presets)
}

func durationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

// allDone reports whether no registered countdown will tick again.
func allDone(m *countdown.Manager) bool {
	for _, name := range m.Names() {
		cd, ok := m.Get(name)
		if ok && !finished(cd) {
			return false
		}
	}
	return true
}

// finished reports whether cd completed or is a number countdown with an
// invalid duration, which stays Idle for good.
func finished(cd countdown.Countdown) bool {
	if cd.State() == countdown.StateCompleted {
		return true
	}
	nc, ok := cd.(*countdown.NumberCountdown)
	return ok && !nc.Valid()
}

// completionWatch cancels the run once every countdown has finished. Checks
// before arm are ignored: a countdown that completes while the others are
// still being added must not end the run.
type completionWatch struct {
	mu     sync.Mutex
	m      *countdown.Manager
	cancel context.CancelFunc
	armed  bool
}

func newCompletionWatch(m *countdown.Manager, cancel context.CancelFunc) *completionWatch {
	return &completionWatch{m: m, cancel: cancel}
}

// arm enables cancellation and checks once.
func (w *completionWatch) arm() {
	w.mu.Lock()
	w.armed = true
	w.mu.Unlock()
	w.check()
}

func (w *completionWatch) check() {
	w.mu.Lock()
	armed := w.armed
	w.mu.Unlock()
	if armed && allDone(w.m) {
		w.cancel()
	}
}

// renderer prints snapshot lines. Without a terminal prompt to protect,
// each line overwrites the previous one for a single countdown.
type renderer struct {
	mu     sync.Mutex
	w      io.Writer
	inline bool
}

func newRenderer(w io.Writer, inline bool) *renderer {
	return &renderer{w: w, inline: inline}
}

func (r *renderer) update(s countdown.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inline {
		fmt.Fprintf(r.w, "\r%s", interactive.FormatSnapshot(s))
		if s.Done() {
			fmt.Fprintln(r.w)
		}
		return
	}
	fmt.Fprintln(r.w, interactive.FormatSnapshot(s))
}
