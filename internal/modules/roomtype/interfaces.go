package roomtype

import (
	"context"

	"backoffice/internal/domain"
)

type RoomTypeRepository interface {
	ListByExperience(ctx context.Context, experienceID int64) ([]domain.RoomType, error)
	GetByID(ctx context.Context, id int64) (*domain.RoomType, error)
	NameTaken(ctx context.Context, experienceID int64, name string, exceptID int64) (bool, error)
	Create(ctx context.Context, rt *domain.RoomType) error
	Update(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
}

// CacheInvalidator drops cached availability of a removed room type.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, experienceID, roomTypeID int64)
}
