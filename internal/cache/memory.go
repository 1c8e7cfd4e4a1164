package cache

import (
	"context"
	"sync"
	"time"

	"backoffice/internal/domain"
)

type memoryEntry struct {
	gen     int64
	periods []domain.AvailabilityPeriod
	expires time.Time
}

// MemoryStore is the in-process Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	gens    map[[2]int64]int64
	entries map[Key]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		gens:    make(map[[2]int64]int64),
		entries: make(map[Key]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, key Key) ([]domain.AvailabilityPeriod, int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := s.gens[[2]int64{key.ExperienceID, key.RoomTypeID}]
	e, ok := s.entries[key]
	if !ok || e.gen != gen || !s.now().Before(e.expires) {
		if ok {
			delete(s.entries, key)
		}
		return nil, gen, false, nil
	}
	out := make([]domain.AvailabilityPeriod, len(e.periods))
	copy(out, e.periods)
	return out, gen, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, gen int64, periods []domain.AvailabilityPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gens[[2]int64{key.ExperienceID, key.RoomTypeID}] {
		return nil
	}
	stored := make([]domain.AvailabilityPeriod, len(periods))
	copy(stored, periods)
	s.entries[key] = memoryEntry{gen: gen, periods: stored, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, experienceID, roomTypeID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gens[[2]int64{experienceID, roomTypeID}]++
	for k := range s.entries {
		if k.ExperienceID == experienceID && k.RoomTypeID == roomTypeID {
			delete(s.entries, k)
		}
	}
	return nil
}
