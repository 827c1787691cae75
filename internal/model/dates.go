// internal/model/dates.go
package model

import "time"

// StartOfDay は日付を UTC の 0 時に正規化します
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return StartOfDay(a).Equal(StartOfDay(b))
}

// ClampDay は日単位に正規化し、未来の日付を today に丸めます
func ClampDay(t, now time.Time) time.Time {
	day := StartOfDay(t)
	today := StartOfDay(now)
	if day.After(today) {
		return today
	}
	return day
}
