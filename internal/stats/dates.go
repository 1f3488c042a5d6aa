package stats

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date key format used throughout the document.
const DateLayout = "2006-01-02"

// FormatDate returns the date key for t in t's location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a date key as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Midnight truncates t to the start of its calendar day in its own location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// LastNDays returns the n calendar days ending with today, oldest first.
func LastNDays(today time.Time, n int) []time.Time {
	today = Midnight(today)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

// WeekStarts returns the Sundays that start the last n weeks, oldest first.
// The last element is the Sunday on or before today.
func WeekStarts(today time.Time, n int) []time.Time {
	today = Midnight(today)
	current := today.AddDate(0, 0, -int(today.Weekday()))
	starts := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		starts = append(starts, current.AddDate(0, 0, -7*i))
	}
	return starts
}

// MonthsAgo returns today minus n calendar months.
func MonthsAgo(today time.Time, n int) time.Time {
	return Midnight(today).AddDate(0, -n, 0)
}

// Today returns midnight of now's calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Midnight(now.In(loc))
}
