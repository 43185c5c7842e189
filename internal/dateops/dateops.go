// Package dateops provides calendar arithmetic used to lay out months and weeks.
package dateops

import "time"

// WeekSpan describes how a month is split into weeks.
type WeekSpan struct {
	// WeekCount is the number of weeks (full or partial) the month touches.
	WeekCount int
	// LastDayOffset is how many days the final week extends into the next month.
	LastDayOffset int
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the following month normalises to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WeekOffset returns the distance from firstDayOfWeek to the weekday of the
// given date.
//
// When the weekday precedes firstDayOfWeek the distance is 6 - weekday.
func WeekOffset(year int, month time.Month, day int, firstDayOfWeek time.Weekday) int {
	weekday := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Weekday()
	if offset := int(weekday) - int(firstDayOfWeek); offset >= 0 {
		return offset
	}
	return 6 - int(weekday)
}

// WeeksInMonth computes how many weeks the month spans when weeks start on
// firstDayOfWeek.
func WeeksInMonth(year int, month time.Month, firstDayOfWeek time.Weekday) WeekSpan {
	days := DaysInMonth(year, month)
	weekEnd := 7 - WeekOffset(year, month, 1, firstDayOfWeek)

	count := 1
	for weekEnd < days {
		weekEnd += 7
		count++
	}

	return WeekSpan{
		WeekCount:     count,
		LastDayOffset: weekEnd - days,
	}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable millisecond of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// PreviousMonth returns the year and month preceding the given one.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth returns the year and month following the given one.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}
