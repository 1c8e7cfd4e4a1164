package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/calendar"
	"backoffice/internal/calendar/bulkedit"
	"backoffice/internal/domain"
)

var (
	ErrClosed          = errors.New("dialog is closed")
	ErrNoRoomType      = errors.New("no room type selected")
	ErrEmptySelection  = errors.New("no dates selected")
	ErrUnknownRoomType = errors.New("room type is not part of this experience")
	ErrSaving          = errors.New("save already in progress")
)

type Options struct {
	Service  AvailabilityService
	Notifier Notifier

	// Location is the zone date keys are built in. Defaults to time.Local.
	Location      *time.Location
	Now           func() time.Time
	Month         time.Time
	ViewportWidth int
}

// slot identifies one availability fetch. A response is applied only if its slot
// is still the current one when it arrives.
type slot struct {
	experienceID int64
	roomTypeID   int64
	start        string
	end          string
}

// Dialog is the calendar management dialog. It is safe for concurrent use; service
// calls run outside the lock and the Notifier is never called with the lock held.
type Dialog struct {
	svc    AvailabilityService
	notify Notifier
	opts   Options

	mu              sync.Mutex
	grid            *calendar.Grid
	panel           *bulkedit.Panel
	panelSel        calendar.Selection
	open            bool
	experienceID    int64
	roomTypes       []domain.RoomType
	roomTypesLoaded bool
	roomTypeID      int64
	selection       calendar.Selection
	dragging        bool
	periods         map[string]domain.AvailabilityPeriod
	loadedSlot      slot
	saving          bool
}

func New(opts Options) *Dialog {
	d := &Dialog{
		svc:       opts.Service,
		notify:    opts.Notifier,
		opts:      opts,
		panel:     bulkedit.NewPanel(),
		selection: calendar.NewSelection(),
		panelSel:  calendar.NewSelection(),
	}
	if d.notify == nil {
		d.notify = nopNotifier{}
	}
	d.grid = d.newGrid(opts.Month, opts.ViewportWidth)
	return d
}

func (d *Dialog) newGrid(month time.Time, width int) *calendar.Grid {
	return calendar.NewGrid(calendar.GridOptions{
		Month:         month,
		Location:      d.opts.Location,
		Now:           d.opts.Now,
		ViewportWidth: width,
		// grid callbacks fire from Dialog methods, which already hold mu
		IsSelected:        func(date time.Time) bool { return d.selection.Has(date) },
		OnDateSelect:      func(dates []time.Time) { d.selection = calendar.NewSelection(dates...) },
		OnDragStateChange: func(dragging bool) { d.dragging = dragging },
	})
}

// Open binds the dialog to an experience, loads its room types, selects the first
// one and fetches the visible month.
func (d *Dialog) Open(ctx context.Context, experienceID int64) error {
	d.mu.Lock()
	d.resetLocked()
	d.open = true
	d.experienceID = experienceID
	d.mu.Unlock()

	if err := d.loadRoomTypes(ctx); err != nil {
		return err
	}
	return d.Refresh(ctx)
}

// Close drops every piece of transient state.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

func (d *Dialog) resetLocked() {
	d.open = false
	d.experienceID = 0
	d.roomTypes = nil
	d.roomTypesLoaded = false
	d.roomTypeID = 0
	d.selection = calendar.NewSelection()
	d.dragging = false
	d.periods = nil
	d.loadedSlot = slot{}
	d.saving = false
	d.panel.Close()
	d.panelSel = calendar.NewSelection()
	d.grid = d.newGrid(d.grid.Month(), d.grid.ViewportWidth())
}

func (d *Dialog) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Dialog) ExperienceID() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.experienceID
}

// RoomTypes returns a copy of the loaded room types.
func (d *Dialog) RoomTypes() []domain.RoomType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]domain.RoomType, len(d.roomTypes))
	copy(out, d.roomTypes)
	return out
}

func (d *Dialog) SelectedRoomType() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.roomTypeID
}

// ShowEmptyState reports that the experience has no room types yet, so the dialog
// offers room type creation instead of the grid.
func (d *Dialog) ShowEmptyState() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open && d.roomTypesLoaded && len(d.roomTypes) == 0
}

// SelectRoomType switches the grid to another room type. The selection is cleared
// and the month refetched.
func (d *Dialog) SelectRoomType(ctx context.Context, id int64) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	if !d.hasRoomTypeLocked(id) {
		d.mu.Unlock()
		return ErrUnknownRoomType
	}
	if id == d.roomTypeID {
		d.mu.Unlock()
		return nil
	}
	d.roomTypeID = id
	d.clearSelectionLocked()
	d.periods = nil
	d.mu.Unlock()

	return d.Refresh(ctx)
}

func (d *Dialog) hasRoomTypeLocked(id int64) bool {
	for _, rt := range d.roomTypes {
		if rt.ID == id {
			return true
		}
	}
	return false
}

// Pointer and touch input. The owner routes every pointer release to PointerUp,
// including releases outside the grid.

func (d *Dialog) PointerDown(date time.Time) {
	d.withGrid(func(g *calendar.Grid) { g.PointerDown(date) })
}

func (d *Dialog) PointerEnter(date time.Time) {
	d.withGrid(func(g *calendar.Grid) { g.PointerEnter(date) })
}

func (d *Dialog) PointerUp() {
	d.withGrid(func(g *calendar.Grid) { g.PointerUp() })
}

func (d *Dialog) Click(date time.Time) {
	d.withGrid(func(g *calendar.Grid) { g.Click(date) })
}

func (d *Dialog) TouchStart(key string) {
	d.withGrid(func(g *calendar.Grid) { g.TouchStart(key) })
}

func (d *Dialog) TouchMove(key string) {
	d.withGrid(func(g *calendar.Grid) { g.TouchMove(key) })
}

func (d *Dialog) TouchEnd() {
	d.withGrid(func(g *calendar.Grid) { g.TouchEnd() })
}

func (d *Dialog) SetViewportWidth(w int) {
	d.withGrid(func(g *calendar.Grid) { g.SetViewportWidth(w) })
}

func (d *Dialog) withGrid(fn func(g *calendar.Grid)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open || d.roomTypeID == 0 {
		return
	}
	fn(d.grid)
	d.syncPanelLocked()
}

// syncPanelLocked opens the editor once a gesture has finished with a non-empty
// selection, pre-filled from the stored record of the earliest selected day.
func (d *Dialog) syncPanelLocked() {
	if d.selection.Empty() || d.dragging {
		if d.panel.IsOpen() {
			d.panel.Close()
			d.panelSel = calendar.NewSelection()
		}
		return
	}
	if d.panel.IsOpen() && d.panelSel.Equal(d.selection) {
		return
	}

	var initial *domain.AvailabilityPeriod
	keys := d.selection.Keys()
	if p, ok := d.periods[keys[0]]; ok {
		initial = &p
	}
	d.panel.Open(d.selection.Len(), initial)
	d.panelSel = d.selection
}

func (d *Dialog) clearSelectionLocked() {
	d.selection = calendar.NewSelection()
	d.syncPanelLocked()
}

func (d *Dialog) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clearSelectionLocked()
}

// Selection returns the selected date keys in ascending order.
func (d *Dialog) Selection() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection.Keys()
}

func (d *Dialog) IsDragging() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dragging
}

// EditorOpen is true exactly when some dates are selected and no drag is in progress.
func (d *Dialog) EditorOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selection.Len() > 0 && !d.dragging
}

// Form is a snapshot of the editor input.
func (d *Dialog) Form() bulkedit.Form {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.panel.Form()
}

// Edit runs fn against the editor panel under the dialog lock.
func (d *Dialog) Edit(fn func(p *bulkedit.Panel)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.panel)
}

func (d *Dialog) Discount() (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.panel.Discount()
}

// Month is the first day of the displayed month.
func (d *Dialog) Month() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.Month()
}

func (d *Dialog) ViewMode() calendar.ViewMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.ViewMode()
}

// PreviousMonth and NextMonth move the grid and refetch. The selection is kept.
func (d *Dialog) PreviousMonth(ctx context.Context) error {
	return d.shiftMonth(ctx, -1)
}

func (d *Dialog) NextMonth(ctx context.Context) error {
	return d.shiftMonth(ctx, 1)
}

func (d *Dialog) shiftMonth(ctx context.Context, n int) error {
	d.mu.Lock()
	if n < 0 {
		d.grid.PreviousMonth()
	} else {
		d.grid.NextMonth()
	}
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// Cells lays out the visible month with the loaded records projected onto it.
func (d *Dialog) Cells() []calendar.DateCell {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grid.Cells(func(key string) (calendar.DayRecord, bool) {
		p, ok := d.periods[key]
		if !ok {
			return calendar.DayRecord{}, false
		}
		return calendar.DayRecord{
			Price:              p.Price,
			OriginalPrice:      p.OriginalPrice,
			DiscountPercentage: p.DiscountPercentage,
			AvailableRooms:     p.AvailableRooms,
			IsAvailable:        p.IsAvailable,
		}, true
	})
}

// Record returns the stored period for a date key of the visible month.
func (d *Dialog) Record(key string) (domain.AvailabilityPeriod, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.periods[key]
	return p, ok
}

func (d *Dialog) currentSlotLocked() (slot, bool) {
	if !d.open || d.roomTypeID == 0 {
		return slot{}, false
	}
	start, end := d.grid.VisibleRange()
	return slot{
		experienceID: d.experienceID,
		roomTypeID:   d.roomTypeID,
		start:        calendar.LocalDateKey(start),
		end:          calendar.LocalDateKey(end),
	}, true
}

// Refresh fetches availability of the visible month for the selected room type.
// A response for parameters that are no longer current is dropped.
func (d *Dialog) Refresh(ctx context.Context) error {
	d.mu.Lock()
	s, ok := d.currentSlotLocked()
	d.mu.Unlock()
	if !ok {
		return nil
	}

	periods, err := d.svc.GetAvailability(ctx, AvailabilityQuery{
		ExperienceID: s.experienceID,
		RoomTypeID:   s.roomTypeID,
		StartDate:    s.start,
		EndDate:      s.end,
	})

	d.mu.Lock()
	if cur, ok := d.currentSlotLocked(); !ok || cur != s {
		d.mu.Unlock()
		return nil
	}
	if err != nil {
		d.mu.Unlock()
		d.notify.Error("Failed to load availability", err)
		return err
	}
	byKey := make(map[string]domain.AvailabilityPeriod, len(periods))
	for _, p := range periods {
		byKey[p.Date] = p
	}
	d.periods = byKey
	d.loadedSlot = s
	d.mu.Unlock()
	return nil
}

// Save applies the editor values to every selected day in one batch. On success the
// selection is cleared and the month refetched; on failure selection and form stay.
func (d *Dialog) Save(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	if d.saving {
		d.mu.Unlock()
		return ErrSaving
	}
	if d.roomTypeID == 0 {
		d.mu.Unlock()
		return ErrNoRoomType
	}
	if d.selection.Empty() {
		d.mu.Unlock()
		return ErrEmptySelection
	}
	values, err := d.panel.Submit()
	if err != nil {
		d.mu.Unlock()
		d.notify.Error("Please check the form", err)
		return err
	}
	dates := d.selection.Dates()
	batch := bulkedit.FanOut(values, d.experienceID, d.roomTypeID, dates)
	roomTypeID := d.roomTypeID
	d.saving = true
	d.mu.Unlock()

	err = d.svc.BulkUpsertAvailability(ctx, batch)

	d.mu.Lock()
	d.saving = false
	if err != nil {
		d.mu.Unlock()
		d.notify.Error("Failed to update availability", err)
		return err
	}
	if d.open && d.roomTypeID == roomTypeID {
		d.clearSelectionLocked()
	}
	d.mu.Unlock()

	d.notify.Success(fmt.Sprintf("Availability updated for %d dates", len(batch)))
	return d.Refresh(ctx)
}

// Loading reports that the records on screen do not belong to the current month and
// room type yet.
func (d *Dialog) Loading() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.currentSlotLocked()
	return ok && cur != d.loadedSlot
}

func (d *Dialog) Saving() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saving
}

// loadRoomTypes replaces the room type list. The first room type is selected when
// none is; a selected room type that disappeared is dropped along with the selection.
func (d *Dialog) loadRoomTypes(ctx context.Context) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	experienceID := d.experienceID
	d.mu.Unlock()

	rts, err := d.svc.ListRoomTypes(ctx, experienceID)

	d.mu.Lock()
	if !d.open || d.experienceID != experienceID {
		d.mu.Unlock()
		return nil
	}
	if err != nil {
		d.mu.Unlock()
		d.notify.Error("Failed to load room types", err)
		return err
	}
	d.roomTypes = rts
	d.roomTypesLoaded = true
	if d.roomTypeID != 0 && !d.hasRoomTypeLocked(d.roomTypeID) {
		d.roomTypeID = 0
		d.periods = nil
		d.clearSelectionLocked()
	}
	if d.roomTypeID == 0 && len(rts) > 0 {
		d.roomTypeID = rts[0].ID
	}
	d.mu.Unlock()
	return nil
}

// CreateRoomType adds a room type to the open experience and reloads the list.
func (d *Dialog) CreateRoomType(ctx context.Context, in RoomTypeInput) (*domain.RoomType, error) {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return nil, ErrClosed
	}
	in.ExperienceID = d.experienceID
	before := d.roomTypeID
	d.mu.Unlock()

	rt, err := d.svc.CreateRoomType(ctx, in)
	if err != nil {
		d.notify.Error("Failed to create room type", err)
		return nil, err
	}
	d.notify.Success(fmt.Sprintf("Room type %q created", rt.Name))

	if err := d.reloadRoomTypes(ctx, before); err != nil {
		return rt, err
	}
	return rt, nil
}

func (d *Dialog) UpdateRoomType(ctx context.Context, id int64, patch RoomTypePatch) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	before := d.roomTypeID
	d.mu.Unlock()

	if err := d.svc.UpdateRoomType(ctx, id, patch); err != nil {
		d.notify.Error("Failed to update room type", err)
		return err
	}
	d.notify.Success("Room type updated")
	return d.reloadRoomTypes(ctx, before)
}

// DeleteRoomType removes a room type; its availability goes with it on the server.
func (d *Dialog) DeleteRoomType(ctx context.Context, id int64) error {
	d.mu.Lock()
	if !d.open {
		d.mu.Unlock()
		return ErrClosed
	}
	before := d.roomTypeID
	d.mu.Unlock()

	if err := d.svc.DeleteRoomType(ctx, id); err != nil {
		d.notify.Error("Failed to delete room type", err)
		return err
	}
	d.notify.Success("Room type deleted")
	return d.reloadRoomTypes(ctx, before)
}

// reloadRoomTypes refreshes the list and refetches availability if the selected
// room type changed as a result.
func (d *Dialog) reloadRoomTypes(ctx context.Context, before int64) error {
	if err := d.loadRoomTypes(ctx); err != nil {
		return err
	}
	d.mu.Lock()
	changed := d.roomTypeID != before
	d.mu.Unlock()
	if !changed {
		return nil
	}
	return d.Refresh(ctx)
}
