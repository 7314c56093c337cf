// Command countdown-log inspects the .clog event files written by
// "countdown -event-log".
//
// Usage:
//
//	countdown-log <command> [flags] <file.clog>
//
// Commands:
//
//	view     Print events as readable lines
//	export   Convert events to JSON Lines or CSV
//	filter   Copy selected events to a new .clog file
//	stats    Summarize every countdown in the file
//
// view and filter select events with -id, -name, -category, -time-start and
// -time-end.
//
// Examples:
//
//	# Warnings raised by any countdown
//	countdown-log view -category warning run.clog
//
//	# Ticks of the tea timer as CSV
//	countdown-log export -format csv -o run.csv run.clog
//
//	# Keep only one countdown
//	countdown-log filter -name tea -o tea.clog run.clog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/countdown-go/countdown/cmd/countdown-log/commands"
)

// subcommand is one countdown-log command. setup registers its flags and
// returns the action run on the log file once they are parsed.
type subcommand struct {
	name    string
	summary string
	setup   func(fs *flag.FlagSet, stdout io.Writer) func(path string) error
}

var subcommands = []subcommand{
	{name: "view", summary: "Print events as readable lines", setup: setupView},
	{name: "export", summary: "Convert events to JSON Lines or CSV", setup: setupExport},
	{name: "filter", summary: "Copy selected events to a new .clog file", setup: setupFilter},
	{name: "stats", summary: "Summarize every countdown in the file", setup: setupStats},
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches args to a subcommand and returns the process exit code:
// 0 on success, 1 when the command fails, 2 for usage errors.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 2
	}
	switch args[0] {
	case "-h", "-help", "--help", "help":
		printUsage(stdout)
		return 0
	}

	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	fs := flag.NewFlagSet(cmd.name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "countdown-log %s - %s\n\nUsage:\n  countdown-log %s [flags] <file.clog>\n\nFlags:\n",
			cmd.name, cmd.summary, cmd.name)
		fs.PrintDefaults()
	}
	action := cmd.setup(fs, stdout)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one .clog file is required")
		fs.Usage()
		return 2
	}

	if err := action(fs.Arg(0)); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func lookup(name string) (subcommand, bool) {
	for _, c := range subcommands {
		if c.name == name {
			return c, true
		}
	}
	return subcommand{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "countdown-log - inspect event files written by countdown -event-log")
	fmt.Fprintln(w, "\nUsage:\n  countdown-log <command> [flags] <file.clog>\n\nCommands:")
	for _, c := range subcommands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nRun \"countdown-log <command> -help\" for the flags of a command.")
}

// selection holds the event selection flags shared by view and filter.
type selection struct {
	id, name, category string
	start, end         string
}

func (s *selection) register(fs *flag.FlagSet) {
	fs.StringVar(&s.id, "id", "", "Only this countdown ID (full or 8+ character prefix)")
	fs.StringVar(&s.name, "name", "", "Only the countdown with this name")
	fs.StringVar(&s.category, "category", "", "Only one category: control, state, tick, warning")
	fs.StringVar(&s.start, "time-start", "", "Only events at or after this instant (RFC3339)")
	fs.StringVar(&s.end, "time-end", "", "Only events at or before this instant (RFC3339)")
}

func (s *selection) options(output string) commands.FilterOptions {
	return commands.FilterOptions{
		Output:      output,
		CountdownID: s.id,
		Name:        s.name,
		Category:    s.category,
		TimeStart:   s.start,
		TimeEnd:     s.end,
	}
}

func setupView(fs *flag.FlagSet, stdout io.Writer) func(string) error {
	var sel selection
	sel.register(fs)

	return func(path string) error {
		filter, err := commands.BuildFilter(sel.options(""))
		if err != nil {
			return err
		}
		return commands.RunView(path, filter, stdout)
	}
}

func setupExport(fs *flag.FlagSet, _ io.Writer) func(string) error {
	format := fs.String("format", "jsonl", "Output format: jsonl, csv")
	output := fs.String("o", "", "Output file (default: stdout)")

	return func(path string) error {
		return commands.RunExport(path, *format, *output)
	}
}

func setupFilter(fs *flag.FlagSet, stdout io.Writer) func(string) error {
	var sel selection
	sel.register(fs)
	output := fs.String("o", "", "Output .clog file (required)")

	return func(path string) error {
		if *output == "" {
			return errors.New("output file (-o) required")
		}
		n, err := commands.RunFilter(path, sel.options(*output))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Filtered %d events to %s\n", n, *output)
		return nil
	}
}

func setupStats(_ *flag.FlagSet, stdout io.Writer) func(string) error {
	return func(path string) error {
		return commands.RunStats(path, stdout)
	}
}
