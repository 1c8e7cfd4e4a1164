package domain

import "time"

// Experience is a sellable hotel offering. PartnerID is the partner user who manages it.
type Experience struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PartnerID int64     `json:"partner_id" gorm:"not null;index"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	HotelName string    `json:"hotel_name" gorm:"size:255"`
	City      string    `json:"city" gorm:"size:128"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
