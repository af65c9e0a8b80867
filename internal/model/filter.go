package model

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// AdultMarker is the literal marker that flags a listing item as adult content.
// It is matched case-insensitively against the item title and its tag text.
const AdultMarker = "adult"

// ErrUnknownFilter is returned when a filter name cannot be parsed.
var ErrUnknownFilter = errors.New("unknown filter: expected adult-only, no-adult or none")

// Filter selects which listing items are materialized as candidates.
//
// Design decision: Filter implements pflag.Value and encoding.TextUnmarshaler
// so the same type is used for the --filter flag and the YAML config file
// without a separate string-to-enum translation step.
type Filter int

const (
	// FilterNone keeps every item regardless of the adult marker.
	FilterNone Filter = iota

	// FilterAdultOnly keeps only items flagged as adult content.
	FilterAdultOnly

	// FilterNoAdult drops items flagged as adult content.
	FilterNoAdult
)

// String returns the command-line name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterAdultOnly:
		return "adult-only"
	case FilterNoAdult:
		return "no-adult"
	default:
		return "unknown"
	}
}

// ParseFilter parses a filter name. Matching ignores case and surrounding space.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return FilterNone, nil
	case "adult-only":
		return FilterAdultOnly, nil
	case "no-adult":
		return FilterNoAdult, nil
	default:
		return FilterNone, fmt.Errorf("%w: %q", ErrUnknownFilter, s)
	}
}

// Set implements pflag.Value.
func (f *Filter) Set(s string) error {
	parsed, err := ParseFilter(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Filter) Type() string {
	return "filter"
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Filter) UnmarshalText(text []byte) error {
	return f.Set(string(text))
}

// MarshalText implements encoding.TextMarshaler.
func (f Filter) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// Keep reports whether an item with the given adult flag passes the filter.
func (f Filter) Keep(adult bool) bool {
	switch f {
	case FilterAdultOnly:
		return adult
	case FilterNoAdult:
		return !adult
	default:
		return true
	}
}

// IsAdult reports whether any of the given texts contains AdultMarker.
// Unicode case folding is used so "ADULT", "Adult" and "adult" all match.
func IsAdult(texts ...string) bool {
	fold := cases.Fold()
	for _, text := range texts {
		if strings.Contains(fold.String(text), AdultMarker) {
			return true
		}
	}
	return false
}
