// Package dateutil provides date parsing and calendar-horizon utilities.
package dateutil

import (
	"errors"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
)

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfWeek returns the Sunday of the week containing t, at midnight.
func StartOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// WeekRange returns the Sunday and Saturday of the week containing t.
func WeekRange(t time.Time) (sunday, saturday time.Time) {
	sunday = StartOfWeek(t)
	saturday = sunday.AddDate(0, 0, 6)
	return sunday, saturday
}

// DayHorizon returns a one-day scheduling horizon containing only t's day.
func DayHorizon(t time.Time) []time.Time {
	return []time.Time{TruncateToDay(t)}
}

// WeekHorizon returns the 7-day scheduling horizon for the week containing t,
// Sunday through Saturday.
func WeekHorizon(t time.Time) []time.Time {
	sunday := StartOfWeek(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// MinuteOfDay returns the minute within t's day, 0-1439.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
