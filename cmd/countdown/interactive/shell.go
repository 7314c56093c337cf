// Package interactive provides the interactive command-line interface
// for the countdown command.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/countdown-go/countdown/pkg/config"
	"github.com/countdown-go/countdown/pkg/countdown"
)

// Shell handles interactive mode for the countdown command.
type Shell struct {
	m   *countdown.Manager
	rl  *readline.Instance
	out io.Writer
}

// New creates a shell controlling m.
func New(m *countdown.Manager) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "countdown> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Shell{m: m, rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log and update output to avoid interfering with the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Execute(line) {
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns true when the shell should exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "list", "ls":
		s.cmdList()

	case "status", "st":
		s.cmdStatus(args)

	case "pause", "p":
		s.withCountdown(args, func(cd countdown.Countdown) { cd.Pause() })

	case "resume", "r":
		s.withCountdown(args, func(cd countdown.Countdown) { cd.Resume() })

	case "stop":
		s.withCountdown(args, func(cd countdown.Countdown) { cd.Stop() })

	case "restart":
		s.cmdRestart(args)

	case "add":
		s.cmdAdd(args)

	case "remove", "rm":
		s.cmdRemove(args)

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Countdown Commands:
  Control:
    pause [name]       - Pause a running countdown
    resume [name]      - Resume a paused countdown
    stop [name]        - Stop a countdown (remaining time becomes zero)
    restart [name]     - Restart a duration countdown from its full length

  Manage:
    add <name> <dur|time> [interval] [mode]
                       - Add a countdown for a duration (3m) or until a time (RFC3339)
    remove <name>      - Remove a countdown

  Inspect:
    list               - List all countdowns
    status [name]      - Show countdown details

  General:
    help               - Show this help
    quit               - Exit

  The name may be omitted when only one countdown exists.`)
}

// resolve returns the countdown named by args, or the only countdown when
// args is empty.
func (s *Shell) resolve(args []string) (string, countdown.Countdown, error) {
	if len(args) == 0 {
		names := s.m.Names()
		switch len(names) {
		case 0:
			return "", nil, errors.New("no countdowns")
		case 1:
			cd, _ := s.m.Get(names[0])
			return names[0], cd, nil
		default:
			return "", nil, fmt.Errorf("several countdowns, name one of: %s", strings.Join(names, ", "))
		}
	}

	cd, ok := s.m.Get(args[0])
	if !ok {
		return "", nil, fmt.Errorf("countdown %q: %w", args[0], countdown.ErrNotFound)
	}
	return args[0], cd, nil
}

func (s *Shell) withCountdown(args []string, fn func(countdown.Countdown)) {
	_, cd, err := s.resolve(args)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fn(cd)
	fmt.Fprintln(s.out, FormatSnapshot(cd.Snapshot()))
}

func (s *Shell) cmdList() {
	snaps := s.m.Snapshots()
	if len(snaps) == 0 {
		fmt.Fprintln(s.out, "No countdowns.")
		return
	}
	for _, snap := range snaps {
		fmt.Fprintln(s.out, FormatSnapshot(snap))
	}
}

func (s *Shell) cmdStatus(args []string) {
	name, cd, err := s.resolve(args)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	snap := cd.Snapshot()

	fmt.Fprintln(s.out, "\nCountdown Status")
	fmt.Fprintln(s.out, "-------------------------------------------")
	fmt.Fprintf(s.out, "  Name:       %s\n", name)
	fmt.Fprintf(s.out, "  ID:         %s\n", snap.ID)
	fmt.Fprintf(s.out, "  State:      %s\n", snap.State)
	fmt.Fprintf(s.out, "  Mode:       %s\n", snap.Mode)
	fmt.Fprintf(s.out, "  Target:     %s\n", snap.Target.Format(time.RFC3339))
	fmt.Fprintf(s.out, "  Interval:   %s\n", snap.Interval)
	fmt.Fprintf(s.out, "  Remaining:  %s\n", snap.Remaining)
	fmt.Fprintf(s.out, "  Values:     %s\n", FormatValues(snap.Mode, snap.Values))
	if nc, ok := cd.(*countdown.NumberCountdown); ok && nc.Restartable() {
		fmt.Fprintf(s.out, "  Duration:   %s (restartable)\n", nc.Duration())
	}
	fmt.Fprintln(s.out)
}

func (s *Shell) cmdRestart(args []string) {
	name, _, err := s.resolve(args)
	if err == nil {
		err = s.m.Restart(name)
	}
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	cd, _ := s.m.Get(name)
	fmt.Fprintln(s.out, FormatSnapshot(cd.Snapshot()))
}

func (s *Shell) cmdAdd(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "Usage: add <name> <dur|time> [interval] [mode]")
		return
	}
	name, when := args[0], args[1]

	interval := countdown.DefaultInterval
	if len(args) > 2 {
		d, err := config.ParseInterval(args[2])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid interval: %v\n", err)
			return
		}
		interval = d
	}

	mode := countdown.ModeCascading
	if len(args) > 3 {
		m, err := countdown.ParseMode(args[3])
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		mode = m
	}

	var cd countdown.Countdown
	if target, err := time.Parse(time.RFC3339, when); err == nil {
		e, err := s.m.Add(name, target, interval, mode)
		if err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		cd = e
	} else {
		d, err := time.ParseDuration(when)
		if err != nil {
			fmt.Fprintf(s.out, "Invalid duration or time: %s\n", when)
			return
		}
		opts := s.m.OptionsFor(name)
		opts.Interval = interval
		opts.Mode = mode
		nc := countdown.NewNumberCountdown(d, opts)
		if err := s.m.Put(name, nc); err != nil {
			fmt.Fprintf(s.out, "Error: %v\n", err)
			return
		}
		nc.Start()
		cd = nc
	}

	fmt.Fprintln(s.out, FormatSnapshot(cd.Snapshot()))
}

func (s *Shell) cmdRemove(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(s.out, "Usage: remove <name>")
		return
	}
	if err := s.m.Remove(args[0]); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "Removed %s\n", args[0])
}
