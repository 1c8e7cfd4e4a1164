package availability

import "backoffice/internal/domain"

// MaxBatchSize caps the number of periods accepted by one bulk upsert.
const MaxBatchSize = 400

type GetAvailabilityQuery struct {
	ExperienceID int64  `form:"experience_id" json:"experience_id" validate:"required,gt=0"`
	RoomTypeID   int64  `form:"room_type_id" json:"room_type_id" validate:"required,gt=0"`
	StartDate    string `form:"start_date" json:"start_date" validate:"required"`
	EndDate      string `form:"end_date" json:"end_date" validate:"required"`
}

// PeriodInput is one day of one room type. Pointer fields distinguish a missing
// value from an explicit zero.
type PeriodInput struct {
	ExperienceID   int64    `json:"experience_id" validate:"required,gt=0"`
	RoomTypeID     int64    `json:"room_type_id" validate:"required,gt=0"`
	Date           string   `json:"date" validate:"required"`
	Price          *float64 `json:"price" validate:"required,gte=0"`
	OriginalPrice  *float64 `json:"original_price" validate:"required,gte=0"`
	AvailableRooms *int     `json:"available_rooms" validate:"required,gte=0"`
	IsAvailable    *bool    `json:"is_available" validate:"required"`
}

type BulkUpsertRequest struct {
	Periods []PeriodInput `json:"periods" validate:"required,min=1,max=400,dive"`
}

type BulkUpsertResult struct {
	Upserted int                         `json:"upserted"`
	Periods  []domain.AvailabilityPeriod `json:"periods"`
}

type slot struct {
	experienceID int64
	roomTypeID   int64
}
