// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/amortization/pkg/constants"
)

const (
	// DateLayout is the format expected in config files.
	DateLayout = constants.DateLayout

	// DisplayLayout is the format used when rendering schedule dates.
	DisplayLayout = constants.DisplayDateLayout
)

// Increment is the distance between two consecutive payment dates. Days and
// Months are added together; a zero Increment means DefaultPeriodDays days.
type Increment struct {
	Days   int
	Months int
}

// DefaultIncrement is the fixed 30-day approximation of one period.
var DefaultIncrement = Increment{Days: constants.DefaultPeriodDays}

// Normalize returns the increment with the default applied when both
// components are zero.
func (i Increment) Normalize() Increment {
	if i.Days == 0 && i.Months == 0 {
		return DefaultIncrement
	}
	return i
}

// Validate rejects increments that would not move dates forward.
func (i Increment) Validate() error {
	if i.Days < 0 || i.Months < 0 {
		return fmt.Errorf("period increment must not be negative (days %d, months %d)", i.Days, i.Months)
	}
	return nil
}

// Next returns t moved forward by one increment.
func (i Increment) Next(t time.Time) time.Time {
	n := i.Normalize()
	return t.AddDate(0, n.Months, n.Days)
}

// CalendarMonths returns an increment of n calendar months.
func CalendarMonths(n int) Increment {
	return Increment{Months: n}
}

// Today returns the current local date at midnight.
func Today() time.Time {
	return Truncate(time.Now())
}

// Truncate drops the clock part of t, keeping its location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDate parses a config date, returning fallback for an empty value.
func ParseDate(value string, fallback time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Truncate(fallback), nil
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected layout %s: %w", value, DateLayout, err)
	}
	return t, nil
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// Display formats t the way schedule tables show dates.
func Display(t time.Time) string {
	return t.Format(DisplayLayout)
}
