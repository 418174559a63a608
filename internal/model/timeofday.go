package model

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time in HH:MM form, independent of any date.
type TimeOfDay string

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(fmt.Sprintf("%02d:%02d", hour, minute))
}

func (t TimeOfDay) IsZero() bool {
	return t == ""
}

// Parse returns the hour and minute components.
func (t TimeOfDay) Parse() (hour, minute int, err error) {
	if _, err := time.Parse("15:04", string(t)); err != nil {
		return 0, 0, fmt.Errorf("invalid time of day %q: %w", t, err)
	}
	fmt.Sscanf(string(t), "%d:%d", &hour, &minute)
	return hour, minute, nil
}

// Anchor pins the time-of-day onto the given calendar date, in the
// date's location.
func (t TimeOfDay) Anchor(date time.Time) (time.Time, error) {
	hour, minute, err := t.Parse()
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, date.Location()), nil
}

// Before reports whether t is strictly earlier in the day than other.
// Both values must be well-formed; malformed values compare lexically,
// which matches chronological order for zero-padded HH:MM.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return string(t) < string(other)
}
