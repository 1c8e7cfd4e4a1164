package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"backoffice/internal/access"
	"backoffice/internal/cache"
	"backoffice/internal/calendar"
	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/modules/availability"
	"backoffice/internal/repository"
)

const defaultRetentionDays = 365

// Removes availability periods dated more than AVAILABILITY_RETENTION_DAYS in the past
// and bumps the shared cache generation of every room type that lost rows. Without
// REDIS_URL the API caches in-process, and those entries age out after CACHE_TTL.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	retention := defaultRetentionDays
	if v := os.Getenv("AVAILABILITY_RETENTION_DAYS"); v != "" {
		retention, err = strconv.Atoi(v)
		if err != nil || retention < 1 {
			log.Fatalf("invalid AVAILABILITY_RETENTION_DAYS value %q", v)
		}
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	store, err := cache.NewStore(ctx, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("cache init failed: %v", err)
	}

	svc := availability.NewService(
		repository.NewAvailabilityRepository(db),
		repository.NewRoomTypeRepository(db),
		access.NewGuard(repository.NewExperienceRepository(db)),
		cache.NewAvailability(store),
		cfg.MaxRangeDays,
	)

	cutoff := calendar.LocalDateKey(calendar.Midnight(time.Now()).AddDate(0, 0, -retention))
	n, err := svc.PruneBefore(ctx, cutoff)
	if err != nil {
		log.Fatalf("cleanup availability_periods failed: %v", err)
	}

	log.Printf("availability cleanup completed: cutoff=%s deleted=%d", cutoff, n)
}
