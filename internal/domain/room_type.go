package domain

import (
	"time"

	"gorm.io/datatypes"
)

type RoomType struct {
	ID           int64                      `json:"id" gorm:"primaryKey"`
	ExperienceID int64                      `json:"experience_id" gorm:"not null;uniqueIndex:idx_room_type_name"`
	Name         string                     `json:"name" gorm:"size:255;not null;uniqueIndex:idx_room_type_name"`
	Description  string                     `json:"description"`
	BaseCapacity int                        `json:"base_capacity" gorm:"not null"`
	MaxCapacity  int                        `json:"max_capacity" gorm:"not null"`
	Amenities    datatypes.JSONSlice[string] `json:"amenities"`
	Images       datatypes.JSONSlice[string] `json:"images"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}
