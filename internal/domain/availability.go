package domain

import (
	"math"
	"time"
)

// AvailabilityPeriod is the price and inventory of one room type on one calendar date.
// Date is a local calendar key in YYYY-MM-DD form, never a UTC timestamp.
type AvailabilityPeriod struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	ExperienceID       int64     `json:"experience_id" gorm:"not null;uniqueIndex:idx_availability_slot,priority:1"`
	RoomTypeID         int64     `json:"room_type_id" gorm:"not null;uniqueIndex:idx_availability_slot,priority:2;index"`
	Date               string    `json:"date" gorm:"size:10;not null;uniqueIndex:idx_availability_slot,priority:3"`
	Price              float64   `json:"price" gorm:"not null;default:0"`
	OriginalPrice      float64   `json:"original_price" gorm:"not null;default:0"`
	DiscountPercentage int       `json:"discount_percentage" gorm:"not null;default:0"`
	AvailableRooms     int       `json:"available_rooms" gorm:"not null;default:0"`
	IsAvailable        bool      `json:"is_available" gorm:"not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DiscountPercentage derives the display discount from a price pair.
// ok is false when the pair cannot produce one (original not positive, or either value not finite).
func DiscountPercentage(price, originalPrice float64) (pct int, ok bool) {
	if math.IsNaN(price) || math.IsInf(price, 0) || math.IsNaN(originalPrice) || math.IsInf(originalPrice, 0) {
		return 0, false
	}
	if originalPrice <= 0 {
		return 0, false
	}
	// half-up rounding, also for negative discounts (price above original)
	return int(math.Floor((originalPrice-price)/originalPrice*100 + 0.5)), true
}

// WithDerivedDiscount returns a copy with DiscountPercentage recomputed from the price pair.
func (p AvailabilityPeriod) WithDerivedDiscount() AvailabilityPeriod {
	pct, ok := DiscountPercentage(p.Price, p.OriginalPrice)
	if !ok {
		pct = 0
	}
	p.DiscountPercentage = pct
	return p
}
