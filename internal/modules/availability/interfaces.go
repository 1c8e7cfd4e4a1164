package availability

import (
	"context"

	"backoffice/internal/cache"
	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

type PeriodRepository interface {
	ListRange(ctx context.Context, experienceID, roomTypeID int64, startKey, endKey string) ([]domain.AvailabilityPeriod, error)
	BulkUpsert(ctx context.Context, periods []domain.AvailabilityPeriod) error
	DeleteBefore(ctx context.Context, cutoffKey string) ([]repository.RoomTypeRef, int64, error)
}

type RoomTypeRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
}

type Cache interface {
	Load(ctx context.Context, key cache.Key, load cache.LoadFunc) ([]domain.AvailabilityPeriod, error)
	Invalidate(ctx context.Context, experienceID, roomTypeID int64)
}
