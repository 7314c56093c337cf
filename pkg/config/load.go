package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse parses and validates a preset file from YAML bytes.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{
			Message: "failed to parse YAML",
			Cause:   err,
		}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses the preset file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{
			File:    path,
			Message: "failed to read file",
			Cause:   err,
		}
	}

	f, err := Parse(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.File = path
			return nil, le
		}
		return nil, &LoadError{File: path, Message: "invalid preset file", Cause: err}
	}
	return f, nil
}

// Validate checks the structural rules of a preset file. Settings with a
// sensible fallback (interval, mode, rounding) are not checked here.
func (f *File) Validate() error {
	if len(f.Countdowns) == 0 {
		return &LoadError{Message: "invalid preset file", Cause: ErrNoCountdowns}
	}

	seen := make(map[string]bool, len(f.Countdowns))
	for i, c := range f.Countdowns {
		if c.Name == "" {
			return &LoadError{
				Message: fmt.Sprintf("countdown #%d", i+1),
				Cause:   ErrEmptyName,
			}
		}
		if seen[c.Name] {
			return &LoadError{
				Message: fmt.Sprintf("countdown %q", c.Name),
				Cause:   ErrDuplicateName,
			}
		}
		seen[c.Name] = true

		if (c.Until == "") == (c.In == "") {
			return &LoadError{
				Message: fmt.Sprintf("countdown %q", c.Name),
				Cause:   ErrMissingTarget,
			}
		}
	}
	return nil
}
