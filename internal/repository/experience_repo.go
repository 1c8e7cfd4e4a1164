package repository

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

type ExperienceFilters struct {
	// PartnerID restricts the list to one partner's experiences when > 0.
	PartnerID int64
	Limit     int
	Offset    int
}

type ExperienceRepository struct {
	db *gorm.DB
}

func NewExperienceRepository(db *gorm.DB) *ExperienceRepository {
	return &ExperienceRepository{db: db}
}

func (r *ExperienceRepository) Create(ctx context.Context, e *domain.Experience) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExperienceRepository) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	var e domain.Experience
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExperienceRepository) List(ctx context.Context, f ExperienceFilters) ([]domain.Experience, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	q := r.db.WithContext(ctx).Model(&domain.Experience{})
	if f.PartnerID > 0 {
		q = q.Where("partner_id = ?", f.PartnerID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []domain.Experience
	if err := q.Order("id ASC").Limit(f.Limit).Offset(f.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
