package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/countdown-go/countdown/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Countdowns       map[string]*CountdownStats
	Warnings         int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// CountdownStats holds statistics for a single countdown.
type CountdownStats struct {
	Name      string
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Ticks     int
	Warnings  int
	LastState string
}

// CollectStats reads every event in the file at path.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Countdowns:       make(map[string]*CountdownStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		cd, ok := stats.Countdowns[event.CountdownID]
		if !ok {
			cd = &CountdownStats{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
			}
			stats.Countdowns[event.CountdownID] = cd
		}
		cd.Events++
		if event.Timestamp.After(cd.LastSeen) {
			cd.LastSeen = event.Timestamp
		}
		if event.Name != "" && cd.Name == "" {
			cd.Name = event.Name
		}

		switch {
		case event.Tick != nil:
			cd.Ticks++
		case event.StateChange != nil:
			cd.LastState = event.StateChange.NewState
		case event.Warning != nil:
			cd.Warnings++
			stats.Warnings++
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Countdown Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range log.Categories {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Countdowns: %d\n", len(stats.Countdowns))
	if len(stats.Countdowns) > 0 {
		// Sort by first seen time
		type cdInfo struct {
			id    string
			stats *CountdownStats
		}
		cds := make([]cdInfo, 0, len(stats.Countdowns))
		for id, cs := range stats.Countdowns {
			cds = append(cds, cdInfo{id, cs})
		}
		sort.Slice(cds, func(i, j int) bool {
			return cds[i].stats.FirstSeen.Before(cds[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range cds {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d ticks, duration %s\n",
				shortenID(c.id), c.stats.Events, c.stats.Ticks, duration)
			if c.stats.Name != "" {
				fmt.Fprintf(w, "           Name: %s\n", c.stats.Name)
			}
			if c.stats.LastState != "" {
				fmt.Fprintf(w, "           State: %s\n", c.stats.LastState)
			}
			if c.stats.Warnings > 0 {
				fmt.Fprintf(w, "           Warnings: %d\n", c.stats.Warnings)
			}
		}
	}

	if stats.Warnings > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Warnings: %d\n", stats.Warnings)
	}
}
