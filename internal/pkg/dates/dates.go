// Package dates works with calendar dates. A date is a time.Time at 00:00 UTC;
// the hotel timezone only matters when deciding what "today" is.
package dates

import (
	"fmt"
	"time"
)

const Layout = "2006-01-02"

// Normalize drops the clock part of t, keeping its calendar day.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Normalize(t), nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the current calendar date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Normalize(now.In(loc))
}

// DaysBetween returns the number of whole days from a to b (negative if b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Normalize(b).Sub(Normalize(a)).Hours() / 24)
}

// Nights lists every date in [checkIn, checkOut).
func Nights(checkIn, checkOut time.Time) []time.Time {
	checkIn, checkOut = Normalize(checkIn), Normalize(checkOut)
	out := make([]time.Time, 0, DaysBetween(checkIn, checkOut))
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Overlaps reports whether the half-open ranges [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Contains reports whether d lies inside [start, end).
func Contains(start, end, d time.Time) bool {
	return !d.Before(start) && d.Before(end)
}
