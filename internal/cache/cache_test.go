package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"backoffice/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var marchKey = Key{ExperienceID: 1, RoomTypeID: 2, Start: "2025-03-01", End: "2025-03-31"}

func sample(price float64) []domain.AvailabilityPeriod {
	return []domain.AvailabilityPeriod{{ExperienceID: 1, RoomTypeID: 2, Date: "2025-03-10", Price: price, OriginalPrice: 200, AvailableRooms: 3, IsAvailable: true}}
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Minute), mr
}

func stores(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(time.Minute),
		"redis":  redisStore,
	}
}

func TestStore_GetSetInvalidate(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, gen, hit, err := s.Get(ctx, marchKey)
			require.NoError(t, err)
			assert.False(t, hit)

			require.NoError(t, s.Set(ctx, marchKey, gen, sample(150)))
			got, _, hit, err := s.Get(ctx, marchKey)
			require.NoError(t, err)
			require.True(t, hit)
			assert.Equal(t, sample(150), got)

			// other room types are unaffected by invalidation
			otherKey := marchKey
			otherKey.RoomTypeID = 3
			_, otherGen, _, _ := s.Get(ctx, otherKey)
			require.NoError(t, s.Set(ctx, otherKey, otherGen, sample(99)))

			require.NoError(t, s.Invalidate(ctx, 1, 2))
			_, _, hit, err = s.Get(ctx, marchKey)
			require.NoError(t, err)
			assert.False(t, hit)

			_, _, hit, err = s.Get(ctx, otherKey)
			require.NoError(t, err)
			assert.True(t, hit)
		})
	}
}

func TestStore_SetWithStaleGenerationIsNotServed(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, staleGen, _, err := s.Get(ctx, marchKey)
			require.NoError(t, err)

			// a mutation lands while the load is in flight
			require.NoError(t, s.Invalidate(ctx, 1, 2))
			require.NoError(t, s.Set(ctx, marchKey, staleGen, sample(150)))

			_, _, hit, err := s.Get(ctx, marchKey)
			require.NoError(t, err)
			assert.False(t, hit)
		})
	}
}

func TestMemoryStore_Expires(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, marchKey, 0, sample(1)))
	_, _, hit, _ := s.Get(ctx, marchKey)
	assert.True(t, hit)

	now = now.Add(2 * time.Minute)
	_, _, hit, _ = s.Get(ctx, marchKey)
	assert.False(t, hit)
}

func TestRedisStore_TTL(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, marchKey, 0, sample(1)))
	mr.FastForward(2 * time.Minute)

	_, _, hit, err := s.Get(ctx, marchKey)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestAvailability_ReadThrough(t *testing.T) {
	a := NewAvailability(NewMemoryStore(time.Minute))
	ctx := context.Background()

	var loads int32
	load := func(context.Context) ([]domain.AvailabilityPeriod, error) {
		atomic.AddInt32(&loads, 1)
		return sample(150), nil
	}

	for i := 0; i < 3; i++ {
		got, err := a.Load(ctx, marchKey, load)
		require.NoError(t, err)
		assert.Equal(t, sample(150), got)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))

	a.Invalidate(ctx, 1, 2)
	_, err := a.Load(ctx, marchKey, load)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&loads))
}

func TestAvailability_ConcurrentMissesShareOneLoad(t *testing.T) {
	a := NewAvailability(NewMemoryStore(time.Minute))
	ctx := context.Background()

	release := make(chan struct{})
	var loads int32
	load := func(context.Context) ([]domain.AvailabilityPeriod, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return sample(150), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := a.Load(ctx, marchKey, load)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
}

func TestAvailability_LoadAfterInvalidateIgnoresInFlightLoad(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			a := NewAvailability(s)
			ctx := context.Background()

			started := make(chan struct{})
			release := make(chan struct{})
			stale := make(chan []domain.AvailabilityPeriod, 1)
			go func() {
				got, err := a.Load(ctx, marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) {
					close(started)
					<-release
					return sample(100), nil
				})
				assert.NoError(t, err)
				stale <- got
			}()
			<-started

			// bulk upsert committed
			a.Invalidate(ctx, 1, 2)

			got, err := a.Load(ctx, marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) {
				return sample(150), nil
			})
			require.NoError(t, err)
			assert.Equal(t, sample(150), got)

			close(release)
			assert.Equal(t, sample(100), <-stale)

			got, err = a.Load(ctx, marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) {
				t.Error("expected a cache hit")
				return nil, nil
			})
			require.NoError(t, err)
			assert.Equal(t, sample(150), got)
		})
	}
}

func TestAvailability_LoadErrorIsNotCached(t *testing.T) {
	a := NewAvailability(NewMemoryStore(time.Minute))
	ctx := context.Background()
	boom := errors.New("db down")

	_, err := a.Load(ctx, marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	got, err := a.Load(ctx, marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) { return sample(1), nil })
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAvailability_RedisDownFallsBackToLoad(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	a := NewAvailability(s)
	got, err := a.Load(context.Background(), marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) { return sample(7), nil })
	require.NoError(t, err)
	assert.Equal(t, sample(7), got)
}

func TestAvailability_NilStoreLoadsDirectly(t *testing.T) {
	var a *Availability
	got, err := a.Load(context.Background(), marchKey, func(context.Context) ([]domain.AvailabilityPeriod, error) { return sample(3), nil })
	require.NoError(t, err)
	assert.Equal(t, sample(3), got)
	a.Invalidate(context.Background(), 1, 2)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	s, err := NewStore(ctx, "", time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	mr := miniredis.RunT(t)
	s, err = NewStore(ctx, "redis://"+mr.Addr(), time.Minute)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)

	require.NoError(t, s.Invalidate(ctx, 1, 2))
	gen, err := mr.Get("availability:gen:1:2")
	require.NoError(t, err)
	assert.Equal(t, "1", gen)
}
