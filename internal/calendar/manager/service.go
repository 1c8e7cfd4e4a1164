// Package manager binds the calendar grid and the bulk edit panel to one experience,
// one room type and one month, and talks to the availability service on their behalf.
package manager

import (
	"context"

	"backoffice/internal/domain"
)

// AvailabilityService is the data boundary of the calendar editor. Date keys are
// local YYYY-MM-DD strings.
type AvailabilityService interface {
	ListRoomTypes(ctx context.Context, experienceID int64) ([]domain.RoomType, error)
	CreateRoomType(ctx context.Context, in RoomTypeInput) (*domain.RoomType, error)
	UpdateRoomType(ctx context.Context, id int64, patch RoomTypePatch) error
	DeleteRoomType(ctx context.Context, id int64) error
	GetAvailability(ctx context.Context, q AvailabilityQuery) ([]domain.AvailabilityPeriod, error)
	BulkUpsertAvailability(ctx context.Context, periods []domain.AvailabilityPeriod) error
}

type RoomTypeInput struct {
	ExperienceID int64    `json:"-"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	BaseCapacity int      `json:"base_capacity"`
	MaxCapacity  int      `json:"max_capacity"`
	Amenities    []string `json:"amenities,omitempty"`
	Images       []string `json:"images,omitempty"`
}

// RoomTypePatch changes only its non-nil fields.
type RoomTypePatch struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	BaseCapacity *int      `json:"base_capacity,omitempty"`
	MaxCapacity  *int      `json:"max_capacity,omitempty"`
	Amenities    *[]string `json:"amenities,omitempty"`
	Images       *[]string `json:"images,omitempty"`
}

type AvailabilityQuery struct {
	ExperienceID int64
	RoomTypeID   int64
	StartDate    string
	EndDate      string
}

// Notifier shows transient messages to the user.
type Notifier interface {
	Success(msg string)
	Error(msg string, err error)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}

func (nopNotifier) Error(string, error) {}
