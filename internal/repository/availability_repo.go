package repository

import (
	"context"

	"backoffice/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 100

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListRange returns the periods of one room type whose date key lies in [startKey, endKey].
// Keys are YYYY-MM-DD so lexical order is calendar order.
func (r *AvailabilityRepository) ListRange(ctx context.Context, experienceID, roomTypeID int64, startKey, endKey string) ([]domain.AvailabilityPeriod, error) {
	rows := []domain.AvailabilityPeriod{}
	err := r.db.WithContext(ctx).
		Where("experience_id = ? AND room_type_id = ?", experienceID, roomTypeID).
		Where("date >= ? AND date <= ?", startKey, endKey).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

// BulkUpsert writes the whole batch in one transaction: either every period is stored or none.
// An existing row for the same (experience, room type, date) is overwritten.
func (r *AvailabilityRepository) BulkUpsert(ctx context.Context, periods []domain.AvailabilityPeriod) error {
	if len(periods) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "experience_id"}, {Name: "room_type_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"price",
				"original_price",
				"discount_percentage",
				"available_rooms",
				"is_available",
				"updated_at",
			}),
		}).CreateInBatches(&periods, upsertBatchSize).Error
	})
}

func (r *AvailabilityRepository) CountByRoomType(ctx context.Context, roomTypeID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.AvailabilityPeriod{}).
		Where("room_type_id = ?", roomTypeID).
		Count(&cnt).Error
	return cnt, err
}

// RoomTypeRef names one room type of one experience.
type RoomTypeRef struct {
	ExperienceID int64
	RoomTypeID   int64
}

// DeleteBefore removes every period dated strictly before cutoffKey and reports the
// room types that lost rows.
func (r *AvailabilityRepository) DeleteBefore(ctx context.Context, cutoffKey string) ([]RoomTypeRef, int64, error) {
	var (
		refs    []RoomTypeRef
		deleted int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.AvailabilityPeriod{}).
			Distinct("experience_id", "room_type_id").
			Where("date < ?", cutoffKey).
			Order("experience_id, room_type_id").
			Scan(&refs).Error; err != nil {
			return err
		}
		res := tx.Where("date < ?", cutoffKey).Delete(&domain.AvailabilityPeriod{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return nil, 0, err
	}
	return refs, deleted, nil
}
