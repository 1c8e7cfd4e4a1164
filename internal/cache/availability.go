package cache

import (
	"context"
	"fmt"
	"log"

	"backoffice/internal/domain"

	"golang.org/x/sync/singleflight"
)

// LoadFunc reads periods from the source of truth.
type LoadFunc func(ctx context.Context) ([]domain.AvailabilityPeriod, error)

// Availability wraps a Store with read-through loading. Concurrent misses for one
// key and generation share a single load. Store failures are logged and treated as misses.
type Availability struct {
	store Store
	group singleflight.Group
}

func NewAvailability(store Store) *Availability {
	return &Availability{store: store}
}

func (a *Availability) Load(ctx context.Context, key Key, load LoadFunc) ([]domain.AvailabilityPeriod, error) {
	if a == nil || a.store == nil {
		return load(ctx)
	}

	periods, gen, hit, err := a.store.Get(ctx, key)
	if err != nil {
		log.Printf("cache_error op=get key=%s error=%q", key, err)
	}
	if hit {
		return periods, nil
	}

	// a load started before an invalidation must not serve readers that arrive after it
	flight := fmt.Sprintf("%s:g%d", key, gen)
	v, err, _ := a.group.Do(flight, func() (interface{}, error) {
		rows, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if setErr := a.store.Set(ctx, key, gen, rows); setErr != nil {
			log.Printf("cache_error op=set key=%s error=%q", key, setErr)
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.AvailabilityPeriod), nil
}

func (a *Availability) Invalidate(ctx context.Context, experienceID, roomTypeID int64) {
	if a == nil || a.store == nil {
		return
	}
	if err := a.store.Invalidate(ctx, experienceID, roomTypeID); err != nil {
		log.Printf("cache_error op=invalidate experience_id=%d room_type_id=%d error=%q", experienceID, roomTypeID, err)
	}
}
