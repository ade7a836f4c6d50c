package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for storage and wire payloads.
const DateLayout = "2006-01-02"

// Day truncates t to its calendar day at UTC midnight. Plans are day
// granular; time-of-day never participates in comparisons.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar day.
// A full RFC3339 timestamp is also accepted and truncated.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return Day(t), nil
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DaysInRange counts calendar days in [start, end], inclusive.
// Returns 0 when end precedes start.
func DaysInRange(start, end time.Time) int {
	s, e := Day(start), Day(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}
