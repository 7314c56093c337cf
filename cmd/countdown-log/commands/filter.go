package commands

import (
	"fmt"
	"io"

	"github.com/countdown-go/countdown/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output      string
	CountdownID string
	Name        string
	TimeStart   string
	TimeEnd     string
	Category    string
}

// BuildFilter converts command-line options into a log.Filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{
		CountdownID: opts.CountdownID,
		Name:        opts.Name,
	}

	var err error
	if filter.TimeStart, err = ParseTimeFlag("time-start", opts.TimeStart); err != nil {
		return log.Filter{}, err
	}
	if filter.TimeEnd, err = ParseTimeFlag("time-end", opts.TimeEnd); err != nil {
		return log.Filter{}, err
	}

	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// RunFilter filters the log file and writes matching events to a new file.
// It returns the number of events written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	filter, err := BuildFilter(opts)
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return logger.Written(), fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
	}

	return logger.Written(), nil
}
