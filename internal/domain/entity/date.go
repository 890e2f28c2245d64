package entity

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date wire format (YYYY-MM-DD)
const DateLayout = "2006-01-02"

// DateOf returns the calendar date of t in loc, as midnight UTC.
// All dates in the domain use this representation so that day arithmetic
// and equality are independent of the server timezone.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// CalendarDate drops the time of day of t, keeping the date as seen in t's
// own location
func CalendarDate(t time.Time) time.Time {
	return DateOf(t, t.Location())
}

// ParseDate parses a YYYY-MM-DD string into a domain date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate formats a domain date as YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// StartOfWeek returns the Monday of the week containing d
func StartOfWeek(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
