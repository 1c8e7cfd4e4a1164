package experience

import (
	"context"

	"backoffice/internal/access"
	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type Service struct {
	experiences ExperienceRepository
	guard       *access.Guard
}

func NewService(experiences ExperienceRepository) *Service {
	return &Service{experiences: experiences, guard: access.NewGuard(experiences)}
}

// List pages through experiences. Partners only see their own.
func (s *Service) List(ctx context.Context, scope access.Scope, q ListQuery) (*ListResult, error) {
	if q.Limit <= 0 || q.Limit > maxLimit {
		q.Limit = defaultLimit
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	f := repository.ExperienceFilters{Limit: q.Limit, Offset: (q.Page - 1) * q.Limit}
	if !scope.IsAdmin() {
		if scope.UserID == 0 {
			return nil, access.ErrForbidden
		}
		f.PartnerID = scope.UserID
	}

	items, total, err := s.experiences.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ListResult{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}

func (s *Service) Get(ctx context.Context, scope access.Scope, id int64) (*domain.Experience, error) {
	return s.guard.Experience(ctx, scope, id)
}
