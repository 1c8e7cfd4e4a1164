package calendar

import "time"

// DayRecord is the display projection of a stored availability record.
type DayRecord struct {
	Price              float64
	OriginalPrice      float64
	DiscountPercentage int
	AvailableRooms     int
	IsAvailable        bool
}

// DateCell is one rendered day.
type DateCell struct {
	Date       time.Time
	Key        string
	Day        int
	Weekday    time.Weekday
	InMonth    bool
	IsPast     bool
	IsToday    bool
	IsSelected bool

	// Record is nil when the day has no stored price.
	Record *DayRecord
}

func (c DateCell) HasPrice() bool { return c.Record != nil }

// DiscountBadge returns the percentage to badge the cell with, if any.
func (c DateCell) DiscountBadge() (int, bool) {
	if c.Record == nil || c.Record.DiscountPercentage <= 0 {
		return 0, false
	}
	return c.Record.DiscountPercentage, true
}

// Selectable reports whether pointer events on the cell can start or join a selection.
func (c DateCell) Selectable() bool {
	return c.InMonth && !c.IsPast
}

// Cells lays out the displayed month. In grid mode the month is padded to whole
// Monday-first weeks; in list mode only the month's own days are returned.
// lookup resolves a date key to its stored record.
func (g *Grid) Cells(lookup func(key string) (DayRecord, bool)) []DateCell {
	today := g.Today()
	first, last := g.VisibleRange()

	from, to := first, last
	if g.ViewMode() == ViewMonthGrid {
		from = first.AddDate(0, 0, -mondayOffset(first.Weekday()))
		to = last.AddDate(0, 0, 6-mondayOffset(last.Weekday()))
	}

	days := DatesBetween(from, to)
	cells := make([]DateCell, 0, len(days))
	for _, d := range days {
		key := LocalDateKey(d)
		cell := DateCell{
			Date:       d,
			Key:        key,
			Day:        d.Day(),
			Weekday:    d.Weekday(),
			InMonth:    d.Month() == first.Month() && d.Year() == first.Year(),
			IsPast:     IsPast(d, today),
			IsToday:    d.Equal(today),
			IsSelected: g.isSelected(d),
		}
		if lookup != nil {
			if rec, ok := lookup(key); ok {
				r := rec
				cell.Record = &r
			}
		}
		cells = append(cells, cell)
	}
	return cells
}

func mondayOffset(w time.Weekday) int {
	return (int(w) + 6) % 7
}
