package timeline

import (
	"strings"
	"time"

	"datsys/internal/model"
)

// ParseDate parses a YYYY-MM-DD date. Empty or malformed input returns ok=false.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BusinessDaysLeft counts the days d with today <= d < deadline that do not fall on the
// excluded weekday. Only the calendar dates of today and deadline are compared.
// A deadline before today yields 0.
func BusinessDaysLeft(today, deadline time.Time, excluded time.Weekday) int {
	d := dateOnly(today)
	end := dateOnly(deadline)
	if end.Before(d) {
		return 0
	}
	days := 0
	for d.Before(end) {
		if d.Weekday() != excluded {
			days++
		}
		d = d.AddDate(0, 0, 1)
	}
	return days
}

// DaysLeft is BusinessDaysLeft over a raw deadline string; nil means no usable deadline.
func DaysLeft(today time.Time, deadline string, excluded time.Weekday) *int {
	t, ok := ParseDate(deadline)
	if !ok {
		return nil
	}
	n := BusinessDaysLeft(today, t, excluded)
	return &n
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
