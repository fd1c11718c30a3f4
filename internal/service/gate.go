package service

import "time"

// MayGenerate decides whether a user may generate another summary today.
// Premium accounts are unlimited; free accounts are capped at dailyLimit
// generations per UTC calendar day.
func MayGenerate(premium bool, countToday, dailyLimit int) bool {
	return premium || countToday < dailyLimit
}

// DayWindow returns the half-open [start, end) window of the UTC calendar day
// containing t. "Today" is always the UTC day.
func DayWindow(t time.Time) (time.Time, time.Time) {
	u := t.UTC()
	start := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
