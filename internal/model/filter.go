package model

import (
	"fmt"

	"github.com/spf13/pflag"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

var validFilters = []Filter{FilterAll, FilterCompleted, FilterPending}

// Filter doubles as a cobra flag value.
var _ pflag.Value = (*Filter)(nil)

func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	for _, f := range validFilters {
		if Filter(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid filter %q: must be one of all, completed, pending", s)
}

// Match reports whether t belongs in the view selected by f.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

// Next cycles all -> completed -> pending -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll, "":
		return FilterCompleted
	case FilterCompleted:
		return FilterPending
	default:
		return FilterAll
	}
}

func (f Filter) String() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}

func (f *Filter) Set(s string) error {
	parsed, err := ParseFilter(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

func (f *Filter) Type() string {
	return "filter"
}

// Filters returns the selectable filters in display order.
func Filters() []Filter {
	out := make([]Filter, len(validFilters))
	copy(out, validFilters)
	return out
}
