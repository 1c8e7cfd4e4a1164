package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"backoffice/internal/domain"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "availability"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a client for addr, which is either host:port or a redis:// URL.
func NewRedisClient(addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{Addr: addr}
	}
	client := redis.NewClient(opts)
	log.Println("Redis initialized with address:", opts.Addr)
	return client, nil
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func genKey(experienceID, roomTypeID int64) string {
	return fmt.Sprintf("%s:gen:%d:%d", keyPrefix, experienceID, roomTypeID)
}

func dataKey(key Key, gen int64) string {
	return fmt.Sprintf("%s:%d:%d:g%d:%s:%s", keyPrefix, key.ExperienceID, key.RoomTypeID, gen, key.Start, key.End)
}

func (s *RedisStore) generation(ctx context.Context, experienceID, roomTypeID int64) (int64, error) {
	gen, err := s.client.Get(ctx, genKey(experienceID, roomTypeID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (s *RedisStore) Get(ctx context.Context, key Key) ([]domain.AvailabilityPeriod, int64, bool, error) {
	gen, err := s.generation(ctx, key.ExperienceID, key.RoomTypeID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := s.client.Get(ctx, dataKey(key, gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var periods []domain.AvailabilityPeriod
	if err := json.Unmarshal(raw, &periods); err != nil {
		return nil, gen, false, fmt.Errorf("decode cached availability: %w", err)
	}
	return periods, gen, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key Key, gen int64, periods []domain.AvailabilityPeriod) error {
	raw, err := json.Marshal(periods)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, dataKey(key, gen), raw, s.ttl).Err()
}

func (s *RedisStore) Invalidate(ctx context.Context, experienceID, roomTypeID int64) error {
	return s.client.Incr(ctx, genKey(experienceID, roomTypeID)).Err()
}
