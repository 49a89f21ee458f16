package utils

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a date-only value and normalizes it to midnight UTC.
// Reservation dates carry no time of day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t.UTC(), nil
}

// DayFloor drops the time-of-day component, keeping the calendar day in UTC.
func DayFloor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date-only value.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
