package calendar

import (
	"sort"
	"time"
)

// Selection is an immutable set of calendar days keyed by their local date key.
type Selection struct {
	dates map[string]time.Time
}

func NewSelection(dates ...time.Time) Selection {
	s := Selection{dates: make(map[string]time.Time, len(dates))}
	for _, d := range dates {
		d = Midnight(d)
		s.dates[LocalDateKey(d)] = d
	}
	return s
}

func (s Selection) Len() int { return len(s.dates) }

func (s Selection) Empty() bool { return len(s.dates) == 0 }

func (s Selection) Has(date time.Time) bool {
	_, ok := s.dates[LocalDateKey(date)]
	return ok
}

// Dates returns the selected days in ascending order.
func (s Selection) Dates() []time.Time {
	out := make([]time.Time, 0, len(s.dates))
	for _, d := range s.dates {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Keys returns the selected date keys in ascending order.
func (s Selection) Keys() []string {
	out := make([]string, 0, len(s.dates))
	for k := range s.dates {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s Selection) Equal(other Selection) bool {
	if len(s.dates) != len(other.dates) {
		return false
	}
	for k := range s.dates {
		if _, ok := other.dates[k]; !ok {
			return false
		}
	}
	return true
}
