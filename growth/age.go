/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package growth

import (
	"fmt"
	"time"
)

// AgeInMonths returns the whole calendar months elapsed from birth to at,
// truncated toward zero. It is negative when at precedes birth.
//
// A month is complete once the same day of month and clock time is reached;
// when that day does not exist in the target month, its last day counts.
func AgeInMonths(birth, at time.Time) int {
	at = at.In(birth.Location())

	months := (at.Year()-birth.Year())*12 + int(at.Month()) - int(birth.Month())
	if months == 0 {
		return 0
	}

	anniversary := addMonthsClamped(birth, months)

	switch {
	case months > 0 && at.Before(anniversary):
		months--
	case months < 0 && at.After(anniversary):
		months++
	}

	return months
}

// AgeInDays returns the whole days elapsed from birth to at, counted on the
// calendar in birth's location so a daylight saving change does not shorten
// a day. The last day only counts once its clock time is reached.
func AgeInDays(birth, at time.Time) int {
	at = at.In(birth.Location())

	days := calendarDays(birth, at)

	switch {
	case days > 0 && clockBefore(at, birth):
		days--
	case days < 0 && clockBefore(birth, at):
		days++
	}

	return days
}

func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)

	return int(b.Sub(a) / (24 * time.Hour))
}

// clockBefore reports whether a's time of day is earlier than b's.
func clockBefore(a, b time.Time) bool {
	ah, am, as := a.Clock()
	bh, bm, bs := b.Clock()

	if ah != bh {
		return ah < bh
	}

	if am != bm {
		return am < bm
	}

	if as != bs {
		return as < bs
	}

	return a.Nanosecond() < b.Nanosecond()
}

// FormatAge renders an age for display, e.g. "< 1 month", "5 months" or
// "2 years, 3 months".
func FormatAge(birth, at time.Time) string {
	months := AgeInMonths(birth, at)

	if months < 1 {
		return "< 1 month"
	}

	if months < 24 {
		return plural(months, "month")
	}

	years := months / 12
	remaining := months % 12

	if remaining == 0 {
		return plural(years, "year")
	}

	return plural(years, "year") + ", " + plural(remaining, "month")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}

	return fmt.Sprintf("%d %ss", n, unit)
}

// addMonthsClamped adds n months to t, clamping the day to the end of the
// target month instead of overflowing into the next one.
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, n, 0)

	day := t.Day()
	if last := daysIn(target.Year(), target.Month(), t.Location()); day > last {
		day = last
	}

	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
