package experience

import (
	"context"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

type ExperienceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Experience, error)
	List(ctx context.Context, f repository.ExperienceFilters) ([]domain.Experience, int64, error)
}
