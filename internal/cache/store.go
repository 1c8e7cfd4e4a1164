// Package cache is the read-through cache for availability ranges.
//
// Entries are keyed by (experience, room type, start, end). Each room type carries a
// generation counter; a mutation bumps the counter, which orphans every cached range of
// that room type at once without scanning keys.
package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"backoffice/internal/domain"
)

type Key struct {
	ExperienceID int64
	RoomTypeID   int64
	Start        string
	End          string
}

func (k Key) String() string {
	return fmt.Sprintf("%d:%d:%s:%s", k.ExperienceID, k.RoomTypeID, k.Start, k.End)
}

// Store is a generation-aware cache backend.
type Store interface {
	// Get returns the cached periods for key, if any, and the room type generation
	// current at read time. Pass that generation to Set.
	Get(ctx context.Context, key Key) (periods []domain.AvailabilityPeriod, gen int64, hit bool, err error)
	// Set stores periods under the generation observed by Get.
	Set(ctx context.Context, key Key, gen int64, periods []domain.AvailabilityPeriod) error
	// Invalidate drops every cached range of the room type.
	Invalidate(ctx context.Context, experienceID, roomTypeID int64) error
}

// NewStore uses Redis when redisURL is set and an in-process store otherwise.
// An unreachable Redis is logged, not fatal: reads fall through to the database.
func NewStore(ctx context.Context, redisURL string, ttl time.Duration) (Store, error) {
	if redisURL == "" {
		log.Println("cache: REDIS_URL empty, using in-memory availability cache")
		return NewMemoryStore(ttl), nil
	}

	client, err := NewRedisClient(redisURL)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("cache: redis ping failed error=%q", err)
	}
	return NewRedisStore(client, ttl), nil
}
