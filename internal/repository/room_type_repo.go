package repository

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
)

type RoomTypeRepository struct {
	db *gorm.DB
}

func NewRoomTypeRepository(db *gorm.DB) *RoomTypeRepository {
	return &RoomTypeRepository{db: db}
}

func (r *RoomTypeRepository) ListByExperience(ctx context.Context, experienceID int64) ([]domain.RoomType, error) {
	rows := []domain.RoomType{}
	err := r.db.WithContext(ctx).
		Where("experience_id = ?", experienceID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *RoomTypeRepository) GetByID(ctx context.Context, id int64) (*domain.RoomType, error) {
	var rt domain.RoomType
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// NameTaken reports whether another room type of the experience already uses name.
func (r *RoomTypeRepository) NameTaken(ctx context.Context, experienceID int64, name string, exceptID int64) (bool, error) {
	var cnt int64
	q := r.db.WithContext(ctx).
		Model(&domain.RoomType{}).
		Where("experience_id = ? AND LOWER(name) = LOWER(?)", experienceID, name)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *RoomTypeRepository) Create(ctx context.Context, rt *domain.RoomType) error {
	return r.db.WithContext(ctx).Create(rt).Error
}

// Update applies the given columns to one room type.
func (r *RoomTypeRepository) Update(ctx context.Context, id int64, fields map[string]any) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.RoomType{}).
		Where("id = ?", id).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the room type together with all of its availability periods.
func (r *RoomTypeRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_type_id = ?", id).Delete(&domain.AvailabilityPeriod{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.RoomType{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
