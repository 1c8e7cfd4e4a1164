package manager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"backoffice/internal/calendar"
	"backoffice/internal/calendar/bulkedit"
	"backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService keeps room types and periods in memory and derives discounts like the API.
type fakeService struct {
	mu        sync.Mutex
	nextID    int64
	roomTypes map[int64][]domain.RoomType
	periods   map[string]domain.AvailabilityPeriod
	upserts   [][]domain.AvailabilityPeriod
	queries   []AvailabilityQuery

	upsertErr error
	listErr   error
	deleteErr error

	// getHook runs before GetAvailability answers.
	getHook func(q AvailabilityQuery)
	// upsertHook runs before BulkUpsertAvailability stores the batch.
	upsertHook func()
}

func newFakeService() *fakeService {
	return &fakeService{
		nextID:    100,
		roomTypes: map[int64][]domain.RoomType{},
		periods:   map[string]domain.AvailabilityPeriod{},
	}
}

func periodKey(rt int64, date string) string {
	return fmt.Sprintf("%d/%s", rt, date)
}

func (f *fakeService) addRoomType(exp int64, name string) domain.RoomType {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rt := domain.RoomType{ID: f.nextID, ExperienceID: exp, Name: name, BaseCapacity: 2, MaxCapacity: 2}
	f.roomTypes[exp] = append(f.roomTypes[exp], rt)
	return rt
}

func (f *fakeService) ListRoomTypes(_ context.Context, experienceID int64) ([]domain.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.RoomType, len(f.roomTypes[experienceID]))
	copy(out, f.roomTypes[experienceID])
	return out, nil
}

func (f *fakeService) CreateRoomType(_ context.Context, in RoomTypeInput) (*domain.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	rt := domain.RoomType{ID: f.nextID, ExperienceID: in.ExperienceID, Name: in.Name, BaseCapacity: in.BaseCapacity, MaxCapacity: in.MaxCapacity}
	f.roomTypes[in.ExperienceID] = append(f.roomTypes[in.ExperienceID], rt)
	return &rt, nil
}

func (f *fakeService) UpdateRoomType(_ context.Context, id int64, patch RoomTypePatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for exp, list := range f.roomTypes {
		for i := range list {
			if list[i].ID == id {
				if patch.Name != nil {
					f.roomTypes[exp][i].Name = *patch.Name
				}
				return nil
			}
		}
	}
	return errors.New("not found")
}

func (f *fakeService) DeleteRoomType(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for exp, list := range f.roomTypes {
		for i := range list {
			if list[i].ID == id {
				f.roomTypes[exp] = append(list[:i:i], list[i+1:]...)
				return nil
			}
		}
	}
	return errors.New("not found")
}

func (f *fakeService) GetAvailability(_ context.Context, q AvailabilityQuery) ([]domain.AvailabilityPeriod, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	hook := f.getHook
	f.mu.Unlock()
	if hook != nil {
		hook(q)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AvailabilityPeriod
	for _, p := range f.periods {
		if p.ExperienceID == q.ExperienceID && p.RoomTypeID == q.RoomTypeID && p.Date >= q.StartDate && p.Date <= q.EndDate {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeService) BulkUpsertAvailability(_ context.Context, periods []domain.AvailabilityPeriod) error {
	f.mu.Lock()
	hook := f.upsertHook
	f.mu.Unlock()
	if hook != nil {
		hook()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts = append(f.upserts, periods)
	for _, p := range periods {
		f.periods[periodKey(p.RoomTypeID, p.Date)] = p.WithDerivedDiscount()
	}
	return nil
}

func (f *fakeService) lastQuery() AvailabilityQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errs      []error
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(_ string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errs = append(n.errs, err)
}

var march1 = time.Date(2025, time.March, 1, 9, 30, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

// tap is a full mouse click: press, release, click on the same day.
func tap(d *Dialog, date time.Time) {
	d.PointerDown(date)
	d.PointerUp()
	d.Click(date)
}

func (f *fakeService) setHook(h func(q AvailabilityQuery)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getHook = h
}

func newDialog(svc *fakeService, n Notifier) *Dialog {
	return New(Options{
		Service:  svc,
		Notifier: n,
		Location: time.UTC,
		Now:      func() time.Time { return march1 },
		Month:    march1,
	})
}

func TestOpen_AutoSelectsFirstRoomTypeAndFetchesMonth(t *testing.T) {
	svc := newFakeService()
	first := svc.addRoomType(1, "Deluxe")
	svc.addRoomType(1, "Suite")
	d := newDialog(svc, nil)

	require.NoError(t, d.Open(context.Background(), 1))
	assert.Equal(t, first.ID, d.SelectedRoomType())
	assert.Len(t, d.RoomTypes(), 2)
	assert.False(t, d.ShowEmptyState())
	assert.False(t, d.Loading())
	assert.Equal(t, AvailabilityQuery{ExperienceID: 1, RoomTypeID: first.ID, StartDate: "2025-03-01", EndDate: "2025-03-31"}, svc.lastQuery())
}

func TestOpen_EmptyRoomTypesShowsEmptyState(t *testing.T) {
	svc := newFakeService()
	d := newDialog(svc, nil)

	require.NoError(t, d.Open(context.Background(), 1))
	assert.True(t, d.ShowEmptyState())
	assert.Zero(t, d.SelectedRoomType())
	assert.Empty(t, svc.queries)

	// input is ignored without a room type
	d.PointerDown(day(10))
	assert.False(t, d.IsDragging())

	rt, err := d.CreateRoomType(context.Background(), RoomTypeInput{Name: "Deluxe", BaseCapacity: 2, MaxCapacity: 2})
	require.NoError(t, err)
	assert.Equal(t, rt.ID, d.SelectedRoomType())
	assert.False(t, d.ShowEmptyState())
	assert.Len(t, svc.queries, 1)
}

func TestEditorOpensOnlyAfterDragCompletes(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, nil)
	require.NoError(t, d.Open(context.Background(), 1))

	d.PointerDown(day(10))
	assert.True(t, d.IsDragging())
	d.PointerEnter(day(12))
	assert.Equal(t, []string{"2025-03-10", "2025-03-11", "2025-03-12"}, d.Selection())
	assert.False(t, d.EditorOpen(), "editor must not flash open mid-drag")

	d.PointerUp()
	assert.True(t, d.EditorOpen())
	assert.Equal(t, bulkedit.DefaultForm(), d.Form())
}

func TestReleaseOutsideGridEndsDrag(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, nil)
	require.NoError(t, d.Open(context.Background(), 1))

	d.PointerDown(day(5))
	d.PointerEnter(day(7))
	// the release lands on the legend, so no cell sees it; the owner's global handler does
	d.PointerUp()

	assert.False(t, d.IsDragging())
	assert.Equal(t, []string{"2025-03-05", "2025-03-06", "2025-03-07"}, d.Selection())
	assert.True(t, d.EditorOpen())
}

func TestScenario_DragSaveRefetchShowsDiscount(t *testing.T) {
	svc := newFakeService()
	rt := svc.addRoomType(1, "Deluxe")
	n := &recordingNotifier{}
	d := newDialog(svc, n)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	for _, c := range d.Cells() {
		assert.False(t, c.HasPrice(), c.Key)
	}

	d.PointerDown(day(10))
	d.PointerEnter(day(14))
	d.PointerUp()
	require.True(t, d.EditorOpen())
	assert.Equal(t, "1", d.Form().AvailableRooms)
	assert.True(t, d.Form().IsAvailable)

	d.Edit(func(p *bulkedit.Panel) {
		p.SetPrice("150")
		p.SetOriginalPrice("200")
		p.SetAvailableRooms("3")
		p.SetAvailable(true)
	})
	pct, ok := d.Discount()
	require.True(t, ok)
	assert.Equal(t, 25, pct)

	require.NoError(t, d.Save(ctx))

	require.Len(t, svc.upserts, 1)
	batch := svc.upserts[0]
	require.Len(t, batch, 5)
	for i, p := range batch {
		assert.Equal(t, calendar.LocalDateKey(day(10+i)), p.Date)
		assert.Equal(t, rt.ID, p.RoomTypeID)
		assert.Equal(t, int64(1), p.ExperienceID)
		assert.Equal(t, 150.0, p.Price)
		assert.Equal(t, 200.0, p.OriginalPrice)
		assert.Equal(t, 3, p.AvailableRooms)
		assert.True(t, p.IsAvailable)
	}

	assert.Empty(t, d.Selection())
	assert.False(t, d.EditorOpen())
	assert.Len(t, n.successes, 1)

	badges := map[string]int{}
	for _, c := range d.Cells() {
		if pct, ok := c.DiscountBadge(); ok {
			badges[c.Key] = pct
		}
	}
	assert.Equal(t, map[string]int{
		"2025-03-10": 25, "2025-03-11": 25, "2025-03-12": 25, "2025-03-13": 25, "2025-03-14": 25,
	}, badges)
}

func TestSaveFailureKeepsSelectionAndForm(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	n := &recordingNotifier{}
	d := newDialog(svc, n)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	tap(d, day(20))
	d.Edit(func(p *bulkedit.Panel) {
		p.SetPrice("90")
		p.SetOriginalPrice("100")
	})
	svc.upsertErr = errors.New("forbidden")
	queries := len(svc.queries)

	err := d.Save(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"2025-03-20"}, d.Selection())
	assert.Equal(t, "90", d.Form().Price)
	assert.True(t, d.EditorOpen())
	assert.Len(t, n.errs, 1)
	assert.Len(t, svc.queries, queries, "failed save must not refetch")

	svc.upsertErr = nil
	require.NoError(t, d.Save(ctx))
	assert.Empty(t, d.Selection())
}

func TestSaveWhileSavingIsRejected(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, &recordingNotifier{})
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	tap(d, day(20))
	d.Edit(func(p *bulkedit.Panel) {
		p.SetPrice("90")
		p.SetOriginalPrice("100")
	})

	inFlight := make(chan struct{})
	release := make(chan struct{})
	svc.mu.Lock()
	svc.upsertHook = func() {
		close(inFlight)
		<-release
	}
	svc.mu.Unlock()

	first := make(chan error, 1)
	go func() { first <- d.Save(ctx) }()
	<-inFlight

	assert.True(t, d.Saving())
	assert.ErrorIs(t, d.Save(ctx), ErrSaving)

	close(release)
	require.NoError(t, <-first)
	assert.False(t, d.Saving())
	assert.Len(t, svc.upserts, 1)
}

func TestSaveRejectsIncompleteForm(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, &recordingNotifier{})
	require.NoError(t, d.Open(context.Background(), 1))

	tap(d, day(20))
	err := d.Save(context.Background())
	assert.ErrorIs(t, err, bulkedit.ErrRequired)
	assert.Empty(t, svc.upserts)

	d.ClearSelection()
	assert.ErrorIs(t, d.Save(context.Background()), ErrEmptySelection)
}

func TestEditorPrefillsFromEarliestSelectedRecord(t *testing.T) {
	svc := newFakeService()
	rt := svc.addRoomType(1, "Deluxe")
	require.NoError(t, svc.BulkUpsertAvailability(context.Background(), []domain.AvailabilityPeriod{
		{ExperienceID: 1, RoomTypeID: rt.ID, Date: "2025-03-11", Price: 180, OriginalPrice: 300, AvailableRooms: 2, IsAvailable: false},
	}))
	d := newDialog(svc, nil)
	require.NoError(t, d.Open(context.Background(), 1))

	d.PointerDown(day(11))
	d.PointerEnter(day(13))
	d.PointerUp()

	f := d.Form()
	assert.Equal(t, "180", f.Price)
	assert.Equal(t, "300", f.OriginalPrice)
	assert.Equal(t, "2", f.AvailableRooms)
	assert.False(t, f.IsAvailable)
	pct, _ := d.Discount()
	assert.Equal(t, 40, pct)

	// a different selection without stored data resets to defaults
	tap(d, day(20))
	assert.Equal(t, bulkedit.DefaultForm(), d.Form())
}

func TestMonthNavigationRefetchesAndKeepsSelection(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, nil)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	tap(d, day(30))
	require.NoError(t, d.NextMonth(ctx))
	q := svc.lastQuery()
	assert.Equal(t, "2025-04-01", q.StartDate)
	assert.Equal(t, "2025-04-30", q.EndDate)
	assert.Equal(t, []string{"2025-03-30"}, d.Selection())

	require.NoError(t, d.PreviousMonth(ctx))
	require.NoError(t, d.PreviousMonth(ctx))
	q = svc.lastQuery()
	assert.Equal(t, "2025-02-01", q.StartDate)
	assert.Equal(t, "2025-02-28", q.EndDate)
}

func TestSelectRoomTypeClearsSelection(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	suite := svc.addRoomType(1, "Suite")
	d := newDialog(svc, nil)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	tap(d, day(12))
	require.NoError(t, d.SelectRoomType(ctx, suite.ID))
	assert.Empty(t, d.Selection())
	assert.False(t, d.EditorOpen())
	assert.Equal(t, suite.ID, svc.lastQuery().RoomTypeID)

	assert.ErrorIs(t, d.SelectRoomType(ctx, 999), ErrUnknownRoomType)
}

func TestDeleteSelectedRoomTypeFallsBackToFirst(t *testing.T) {
	svc := newFakeService()
	deluxe := svc.addRoomType(1, "Deluxe")
	suite := svc.addRoomType(1, "Suite")
	d := newDialog(svc, &recordingNotifier{})
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))
	require.NoError(t, d.SelectRoomType(ctx, suite.ID))
	tap(d, day(12))

	require.NoError(t, d.DeleteRoomType(ctx, suite.ID))
	assert.Equal(t, deluxe.ID, d.SelectedRoomType())
	assert.Empty(t, d.Selection())
	assert.Equal(t, deluxe.ID, svc.lastQuery().RoomTypeID)

	require.NoError(t, d.DeleteRoomType(ctx, deluxe.ID))
	assert.True(t, d.ShowEmptyState())
	assert.Zero(t, d.SelectedRoomType())
}

func TestRoomTypeMutationErrorsAreReported(t *testing.T) {
	svc := newFakeService()
	rt := svc.addRoomType(1, "Deluxe")
	n := &recordingNotifier{}
	d := newDialog(svc, n)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))

	svc.deleteErr = errors.New("boom")
	assert.Error(t, d.DeleteRoomType(ctx, rt.ID))
	assert.Equal(t, rt.ID, d.SelectedRoomType())

	assert.Error(t, d.UpdateRoomType(ctx, 12345, RoomTypePatch{}))
	assert.Len(t, n.errs, 2)

	name := "Deluxe King"
	require.NoError(t, d.UpdateRoomType(ctx, rt.ID, RoomTypePatch{Name: &name}))
	assert.Equal(t, "Deluxe King", d.RoomTypes()[0].Name)
}

func TestCloseResetsTransientState(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, nil)
	require.NoError(t, d.Open(context.Background(), 1))

	d.PointerDown(day(10))
	d.PointerEnter(day(11))
	d.Close()

	assert.False(t, d.IsOpen())
	assert.False(t, d.IsDragging())
	assert.Empty(t, d.Selection())
	assert.Zero(t, d.SelectedRoomType())
	assert.Empty(t, d.RoomTypes())
	assert.ErrorIs(t, d.Save(context.Background()), ErrClosed)
}

func TestStaleAvailabilityResponseIsDropped(t *testing.T) {
	svc := newFakeService()
	deluxe := svc.addRoomType(1, "Deluxe")
	suite := svc.addRoomType(1, "Suite")
	require.NoError(t, svc.BulkUpsertAvailability(context.Background(), []domain.AvailabilityPeriod{
		{ExperienceID: 1, RoomTypeID: deluxe.ID, Date: "2025-03-10", Price: 100, OriginalPrice: 100, AvailableRooms: 1, IsAvailable: true},
	}))
	d := newDialog(svc, nil)
	ctx := context.Background()
	require.NoError(t, d.Open(ctx, 1))
	d.ClearSelection()

	release := make(chan struct{})
	started := make(chan struct{})
	svc.setHook(func(q AvailabilityQuery) {
		if q.RoomTypeID == deluxe.ID {
			close(started)
			<-release
		}
	})

	done := make(chan error, 1)
	go func() { done <- d.Refresh(ctx) }()
	<-started

	svc.setHook(nil)
	require.NoError(t, d.SelectRoomType(ctx, suite.ID))
	close(release)
	require.NoError(t, <-done)

	_, ok := d.Record("2025-03-10")
	assert.False(t, ok, "deluxe data must not land on the suite grid")
}

func TestTouchAndViewMode(t *testing.T) {
	svc := newFakeService()
	svc.addRoomType(1, "Deluxe")
	d := newDialog(svc, nil)
	require.NoError(t, d.Open(context.Background(), 1))

	d.SetViewportWidth(390)
	assert.Equal(t, calendar.ViewList, d.ViewMode())
	assert.Len(t, d.Cells(), 31)

	d.TouchStart("2025-03-03")
	d.TouchMove("")
	d.TouchMove("2025-03-04")
	d.TouchEnd()
	assert.Equal(t, []string{"2025-03-03", "2025-03-04"}, d.Selection())
	assert.True(t, d.EditorOpen())
}

func TestListErrorIsReported(t *testing.T) {
	svc := newFakeService()
	svc.listErr = errors.New("network down")
	n := &recordingNotifier{}
	d := newDialog(svc, n)

	err := d.Open(context.Background(), 1)
	require.Error(t, err)
	assert.Len(t, n.errs, 1)
	assert.False(t, d.ShowEmptyState())
}
