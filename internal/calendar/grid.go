package calendar

import "time"

// MobileBreakpoint is the viewport width below which the grid renders as a day list.
const MobileBreakpoint = 768

type ViewMode int

const (
	ViewMonthGrid ViewMode = iota
	ViewList
)

func (v ViewMode) String() string {
	if v == ViewList {
		return "list"
	}
	return "month"
}

type DragState int

const (
	Idle DragState = iota
	Dragging
)

type GridOptions struct {
	// Month is any day of the month to show first. Defaults to the current month.
	Month    time.Time
	Location *time.Location
	Now      func() time.Time

	// IsSelected reports whether a day is in the owner's current selection.
	IsSelected func(date time.Time) bool

	OnDateSelect      func(dates []time.Time)
	OnDragStateChange func(dragging bool)
	OnMonthChange     func(start, end time.Time)

	ViewportWidth int
}

// Grid is the month calendar with drag-to-select.
//
// Selection is owned by the caller: the grid only reports replacement sets through
// OnDateSelect and drag transitions through OnDragStateChange. Grid is not safe for
// concurrent use.
type Grid struct {
	loc               *time.Location
	now               func() time.Time
	isSelected        func(time.Time) bool
	onDateSelect      func([]time.Time)
	onDragStateChange func(bool)
	onMonthChange     func(start, end time.Time)

	month         time.Time
	state         DragState
	dragStart     time.Time
	hasDragged    bool
	viewportWidth int
}

func NewGrid(opts GridOptions) *Grid {
	g := &Grid{
		loc:               opts.Location,
		now:               opts.Now,
		isSelected:        opts.IsSelected,
		onDateSelect:      opts.OnDateSelect,
		onDragStateChange: opts.OnDragStateChange,
		onMonthChange:     opts.OnMonthChange,
		viewportWidth:     opts.ViewportWidth,
	}
	if g.loc == nil {
		g.loc = time.Local
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.isSelected == nil {
		g.isSelected = func(time.Time) bool { return false }
	}

	month := opts.Month
	if month.IsZero() {
		month = g.now()
	}
	g.month = StartOfMonth(month.In(g.loc))
	return g
}

// Today is local midnight of the grid clock.
func (g *Grid) Today() time.Time {
	return Midnight(g.now().In(g.loc))
}

func (g *Grid) State() DragState { return g.state }

func (g *Grid) IsDragging() bool { return g.state == Dragging }

// DragStart is the anchor day of the active drag; zero when idle.
func (g *Grid) DragStart() time.Time { return g.dragStart }

func (g *Grid) PointerDown(date time.Time) {
	date = g.local(date)
	if IsPast(date, g.Today()) {
		return
	}
	g.state = Dragging
	g.dragStart = date
	g.hasDragged = false
	g.emitDragState(true)
}

func (g *Grid) PointerEnter(date time.Time) {
	if g.state != Dragging {
		return
	}
	g.hasDragged = true
	g.emitSelect(g.rangeFrom(g.dragStart, g.local(date)))
}

// PointerUp ends a drag. The owner calls it for every pointer release,
// including releases outside any cell.
func (g *Grid) PointerUp() {
	if g.state != Dragging {
		return
	}
	g.state = Idle
	g.dragStart = time.Time{}
	g.emitDragState(false)
}

// Click selects exactly date unless it is already selected.
// A click that trails a drag gesture is ignored.
func (g *Grid) Click(date time.Time) {
	if g.hasDragged {
		g.hasDragged = false
		return
	}
	date = g.local(date)
	if IsPast(date, g.Today()) {
		return
	}
	if g.isSelected(date) {
		return
	}
	g.emitSelect([]time.Time{date})
}

// TouchStart begins a drag on the cell whose date key is under the finger.
func (g *Grid) TouchStart(key string) {
	date, ok := g.hit(key)
	if !ok {
		return
	}
	g.PointerDown(date)
}

// TouchMove extends the drag to the cell found by hit-testing. An empty key means
// the finger is not over a day cell.
func (g *Grid) TouchMove(key string) {
	date, ok := g.hit(key)
	if !ok {
		return
	}
	g.PointerEnter(date)
}

func (g *Grid) TouchEnd() { g.PointerUp() }

// Month is the first day of the displayed month.
func (g *Grid) Month() time.Time { return g.month }

// VisibleRange is the first and last day of the displayed month.
func (g *Grid) VisibleRange() (start, end time.Time) {
	return g.month, EndOfMonth(g.month)
}

func (g *Grid) SetMonth(t time.Time) {
	g.month = StartOfMonth(t.In(g.loc))
}

func (g *Grid) PreviousMonth() { g.shiftMonth(-1) }

func (g *Grid) NextMonth() { g.shiftMonth(1) }

func (g *Grid) shiftMonth(n int) {
	g.month = AddMonths(g.month, n)
	if g.onMonthChange != nil {
		start, end := g.VisibleRange()
		g.onMonthChange(start, end)
	}
}

func (g *Grid) SetViewportWidth(w int) { g.viewportWidth = w }

func (g *Grid) ViewportWidth() int { return g.viewportWidth }

func (g *Grid) ViewMode() ViewMode {
	if g.viewportWidth > 0 && g.viewportWidth < MobileBreakpoint {
		return ViewList
	}
	return ViewMonthGrid
}

// Location is the zone date keys are interpreted in.
func (g *Grid) Location() *time.Location { return g.loc }

func (g *Grid) rangeFrom(a, b time.Time) []time.Time {
	today := g.Today()
	all := DatesBetween(a, b)
	out := all[:0]
	for _, d := range all {
		if IsPast(d, today) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (g *Grid) hit(key string) (time.Time, bool) {
	if key == "" {
		return time.Time{}, false
	}
	date, err := ParseDateKey(key, g.loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (g *Grid) local(t time.Time) time.Time {
	// keep the calendar day the caller meant, regardless of the zone it was built in
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, g.loc)
}

func (g *Grid) emitSelect(dates []time.Time) {
	if g.onDateSelect != nil {
		g.onDateSelect(dates)
	}
}

func (g *Grid) emitDragState(dragging bool) {
	if g.onDragStateChange != nil {
		g.onDragStateChange(dragging)
	}
}
