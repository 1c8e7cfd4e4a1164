// Package calendar holds the headless state of the availability calendar editor:
// local date keys, the drag-to-select grid and its day cells.
package calendar

import (
	"strings"
	"time"
)

// DateKeyLayout is the wire format of a calendar day.
const DateKeyLayout = "2006-01-02"

// LocalDateKey formats the calendar day of t in t's own location.
// It never converts to UTC first, so a local midnight keeps its day in every zone.
func LocalDateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// ParseDateKey parses a YYYY-MM-DD key as local midnight in loc.
func ParseDateKey(key string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateKeyLayout, strings.TrimSpace(key), loc)
}

// Midnight truncates t to the start of its calendar day in t's location.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// AddMonths shifts the month containing t by n and returns its first day.
func AddMonths(t time.Time, n int) time.Time {
	return StartOfMonth(t).AddDate(0, n, 0)
}

// IsPast reports whether the calendar day of date is strictly before today.
func IsPast(date, today time.Time) bool {
	return Midnight(date).Before(Midnight(today))
}

// DatesBetween returns every calendar day from min(a, b) to max(a, b) inclusive.
func DatesBetween(a, b time.Time) []time.Time {
	from, to := Midnight(a), Midnight(b)
	if to.Before(from) {
		from, to = to, from
	}

	y, m, d := from.Date()
	out := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+2)
	for i := 0; ; i++ {
		// day arithmetic through time.Date stays on midnight across DST shifts
		day := time.Date(y, m, d+i, 0, 0, 0, 0, from.Location())
		if day.After(to) {
			break
		}
		out = append(out, day)
	}
	return out
}
