package log

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Filter specifies criteria for selecting events.
// Empty/nil fields match all events for that criterion.
type Filter struct {
	// CountdownID filters by exact id, or by id prefix of at least 8
	// characters (the short form printed by countdown-log view).
	CountdownID string

	// Name filters by countdown name.
	Name string

	// Category filters by event category.
	Category *Category

	// TimeStart filters events at or after this time.
	TimeStart *time.Time

	// TimeEnd filters events before this time.
	TimeEnd *time.Time
}

// Matches reports whether the event satisfies every criterion.
func (f *Filter) Matches(event Event) bool {
	if f.CountdownID != "" && !matchID(event.CountdownID, f.CountdownID) {
		return false
	}
	if f.Name != "" && event.Name != f.Name {
		return false
	}
	if f.Category != nil && event.Category != *f.Category {
		return false
	}
	if f.TimeStart != nil && event.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !event.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

func matchID(id, want string) bool {
	if id == want {
		return true
	}
	return len(want) >= 8 && len(id) > len(want) && id[:len(want)] == want
}

// Reader streams events from a CBOR-encoded source.
type Reader struct {
	src     io.Closer
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader opens the .clog file at path and reads every event.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens the .clog file at path and reads events matching
// filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewStreamReader(f, filter), nil
}

// NewStreamReader reads events from rc. Close closes rc.
func NewStreamReader(rc io.ReadCloser, filter Filter) *Reader {
	return &Reader{
		src:     rc,
		decoder: NewDecoder(rc),
		filter:  filter,
	}
}

// Next returns the next matching event, or io.EOF when none are left.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if r.filter.Matches(event) {
			return event, nil
		}
	}
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}

// ReadAll reads every event matching filter from the file at path.
func ReadAll(path string, filter Filter) ([]Event, error) {
	r, err := NewFilteredReader(path, filter)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var events []Event
	for {
		event, err := r.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, event)
	}
}
