package availability

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"backoffice/internal/access"
	"backoffice/internal/cache"
	"backoffice/internal/calendar"
	"backoffice/internal/domain"
	"backoffice/internal/pkg/validator"

	"gorm.io/gorm"
)

type Service struct {
	periods      PeriodRepository
	roomTypes    RoomTypeRepository
	guard        *access.Guard
	cache        Cache
	maxRangeDays int
}

func NewService(periods PeriodRepository, roomTypes RoomTypeRepository, guard *access.Guard, c Cache, maxRangeDays int) *Service {
	return &Service{
		periods:      periods,
		roomTypes:    roomTypes,
		guard:        guard,
		cache:        c,
		maxRangeDays: maxRangeDays,
	}
}

// GetAvailability returns the stored periods of one room type within [start_date, end_date],
// ordered by date. Days without a record are simply absent.
func (s *Service) GetAvailability(ctx context.Context, scope access.Scope, q GetAvailabilityQuery) ([]domain.AvailabilityPeriod, error) {
	if fields := validator.Validate(q); fields != nil {
		return nil, invalid("invalid availability query", fields)
	}
	start, err := parseDay(q.StartDate)
	if err != nil {
		return nil, invalid("start_date must be YYYY-MM-DD", map[string]string{"start_date": "date"})
	}
	end, err := parseDay(q.EndDate)
	if err != nil {
		return nil, invalid("end_date must be YYYY-MM-DD", map[string]string{"end_date": "date"})
	}
	if end.Before(start) {
		return nil, invalid("end_date is before start_date", map[string]string{"end_date": "gtefield"})
	}
	if days := spanDays(start, end); s.maxRangeDays > 0 && days > s.maxRangeDays {
		return nil, invalid(fmt.Sprintf("range of %d days exceeds %d", days, s.maxRangeDays), map[string]string{"end_date": "max_range"})
	}

	if err := s.authorize(ctx, scope, slot{experienceID: q.ExperienceID, roomTypeID: q.RoomTypeID}); err != nil {
		return nil, err
	}

	key := cache.Key{
		ExperienceID: q.ExperienceID,
		RoomTypeID:   q.RoomTypeID,
		Start:        calendar.LocalDateKey(start),
		End:          calendar.LocalDateKey(end),
	}
	return s.cache.Load(ctx, key, func(ctx context.Context) ([]domain.AvailabilityPeriod, error) {
		return s.periods.ListRange(ctx, key.ExperienceID, key.RoomTypeID, key.Start, key.End)
	})
}

// BulkUpsert stores every period of the batch or none of them. Duplicate
// (experience, room type, date) entries collapse to the last one.
func (s *Service) BulkUpsert(ctx context.Context, scope access.Scope, req BulkUpsertRequest) (*BulkUpsertResult, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, invalid("invalid periods", fields)
	}

	records, err := normalize(req.Periods)
	if err != nil {
		return nil, err
	}

	var slots []slot
	seen := make(map[slot]bool)
	for _, r := range records {
		sl := slot{experienceID: r.ExperienceID, roomTypeID: r.RoomTypeID}
		if seen[sl] {
			continue
		}
		seen[sl] = true
		slots = append(slots, sl)
	}
	for _, sl := range slots {
		if err := s.authorize(ctx, scope, sl); err != nil {
			return nil, err
		}
	}

	if err := s.periods.BulkUpsert(ctx, records); err != nil {
		return nil, err
	}
	for _, sl := range slots {
		s.cache.Invalidate(ctx, sl.experienceID, sl.roomTypeID)
	}

	log.Printf("availability_upsert user_id=%d role=%s records=%d room_types=%d", scope.UserID, scope.Role, len(records), len(slots))
	return &BulkUpsertResult{Upserted: len(records), Periods: records}, nil
}

// PruneBefore deletes every period dated before cutoffKey and drops the cached ranges
// of the room types that lost rows.
func (s *Service) PruneBefore(ctx context.Context, cutoffKey string) (int64, error) {
	if _, err := parseDay(cutoffKey); err != nil {
		return 0, invalid("invalid cutoff", map[string]string{"cutoff": "must be a YYYY-MM-DD date"})
	}

	refs, deleted, err := s.periods.DeleteBefore(ctx, cutoffKey)
	if err != nil {
		return 0, err
	}
	for _, ref := range refs {
		s.cache.Invalidate(ctx, ref.ExperienceID, ref.RoomTypeID)
	}

	log.Printf("availability_prune cutoff=%s deleted=%d room_types=%d", cutoffKey, deleted, len(refs))
	return deleted, nil
}

// authorize checks the caller may manage the experience and that the room type belongs to it.
func (s *Service) authorize(ctx context.Context, scope access.Scope, sl slot) error {
	if _, err := s.guard.Experience(ctx, scope, sl.experienceID); err != nil {
		return err
	}
	rt, err := s.roomTypes.GetByID(ctx, sl.roomTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("room type %d: %w", sl.roomTypeID, ErrNotFound)
		}
		return err
	}
	if rt.ExperienceID != sl.experienceID {
		return fmt.Errorf("room type %d is not part of experience %d: %w", sl.roomTypeID, sl.experienceID, ErrNotFound)
	}
	return nil
}

func normalize(in []PeriodInput) ([]domain.AvailabilityPeriod, error) {
	type slotDay struct {
		slot
		date string
	}

	index := make(map[slotDay]int, len(in))
	out := make([]domain.AvailabilityPeriod, 0, len(in))
	for i, p := range in {
		day, err := parseDay(p.Date)
		if err != nil {
			field := fmt.Sprintf("periods[%d].date", i)
			return nil, invalid(field+" must be YYYY-MM-DD", map[string]string{field: "date"})
		}
		rec := domain.AvailabilityPeriod{
			ExperienceID:   p.ExperienceID,
			RoomTypeID:     p.RoomTypeID,
			Date:           calendar.LocalDateKey(day),
			Price:          *p.Price,
			OriginalPrice:  *p.OriginalPrice,
			AvailableRooms: *p.AvailableRooms,
			IsAvailable:    *p.IsAvailable,
		}.WithDerivedDiscount()

		k := slotDay{slot: slot{p.ExperienceID, p.RoomTypeID}, date: rec.Date}
		if j, ok := index[k]; ok {
			out[j] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}
	return out, nil
}

func parseDay(key string) (time.Time, error) {
	return calendar.ParseDateKey(key, time.UTC)
}

func spanDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}
