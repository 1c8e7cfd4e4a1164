package roomtype

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"backoffice/internal/access"
	"backoffice/internal/domain"
	"backoffice/internal/pkg/validator"
	"backoffice/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	roomTypes RoomTypeRepository
	guard     *access.Guard
	cache     CacheInvalidator
}

func NewService(roomTypes RoomTypeRepository, guard *access.Guard, cache CacheInvalidator) *Service {
	return &Service{roomTypes: roomTypes, guard: guard, cache: cache}
}

func (s *Service) List(ctx context.Context, scope access.Scope, experienceID int64) ([]domain.RoomType, error) {
	if _, err := s.guard.Experience(ctx, scope, experienceID); err != nil {
		return nil, err
	}
	return s.roomTypes.ListByExperience(ctx, experienceID)
}

func (s *Service) Create(ctx context.Context, scope access.Scope, experienceID int64, req CreateRoomTypeRequest) (*domain.RoomType, error) {
	req.Name = strings.TrimSpace(req.Name)
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Message: "invalid room type", Fields: fields}
	}
	if err := checkCapacity(req.BaseCapacity, req.MaxCapacity); err != nil {
		return nil, err
	}
	if _, err := s.guard.Experience(ctx, scope, experienceID); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, experienceID, req.Name, 0); err != nil {
		return nil, err
	}

	rt := &domain.RoomType{
		ExperienceID: experienceID,
		Name:         req.Name,
		Description:  strings.TrimSpace(req.Description),
		BaseCapacity: req.BaseCapacity,
		MaxCapacity:  req.MaxCapacity,
		Amenities:    datatypes.JSONSlice[string](nonNil(req.Amenities)),
		Images:       datatypes.JSONSlice[string](nonNil(req.Images)),
	}
	if err := s.roomTypes.Create(ctx, rt); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	log.Printf("room_type_created id=%d experience_id=%d user_id=%d", rt.ID, experienceID, scope.UserID)
	return rt, nil
}

// Update applies only the supplied fields and returns the stored room type.
func (s *Service) Update(ctx context.Context, scope access.Scope, id int64, req UpdateRoomTypeRequest) (*domain.RoomType, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, &ValidationError{Message: "name must not be blank", Fields: map[string]string{"name": "required"}}
		}
		req.Name = &name
	}
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Message: "invalid room type", Fields: fields}
	}
	if req.empty() {
		return nil, &ValidationError{Message: "nothing to update", Fields: map[string]string{"_": "required"}}
	}

	rt, err := s.load(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	base, maxCap := rt.BaseCapacity, rt.MaxCapacity
	if req.BaseCapacity != nil {
		base = *req.BaseCapacity
	}
	if req.MaxCapacity != nil {
		maxCap = *req.MaxCapacity
	}
	if err := checkCapacity(base, maxCap); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		if err := s.ensureNameFree(ctx, rt.ExperienceID, *req.Name, rt.ID); err != nil {
			return nil, err
		}
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.BaseCapacity != nil {
		fields["base_capacity"] = base
	}
	if req.MaxCapacity != nil {
		fields["max_capacity"] = maxCap
	}
	if req.Amenities != nil {
		fields["amenities"] = datatypes.JSONSlice[string](nonNil(*req.Amenities))
	}
	if req.Images != nil {
		fields["images"] = datatypes.JSONSlice[string](nonNil(*req.Images))
	}

	if err := s.roomTypes.Update(ctx, rt.ID, fields); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case repository.IsUniqueViolation(err):
			return nil, ErrConflict
		}
		return nil, err
	}
	return s.roomTypes.GetByID(ctx, rt.ID)
}

// Delete removes the room type and every availability record that references it.
func (s *Service) Delete(ctx context.Context, scope access.Scope, id int64) error {
	rt, err := s.load(ctx, scope, id)
	if err != nil {
		return err
	}
	if err := s.roomTypes.Delete(ctx, rt.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.cache.Invalidate(ctx, rt.ExperienceID, rt.ID)
	log.Printf("room_type_deleted id=%d experience_id=%d user_id=%d", rt.ID, rt.ExperienceID, scope.UserID)
	return nil
}

func (s *Service) load(ctx context.Context, scope access.Scope, id int64) (*domain.RoomType, error) {
	rt, err := s.roomTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("room type %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.guard.Experience(ctx, scope, rt.ExperienceID); err != nil {
		return nil, err
	}
	return rt, nil
}

func (s *Service) ensureNameFree(ctx context.Context, experienceID int64, name string, exceptID int64) error {
	taken, err := s.roomTypes.NameTaken(ctx, experienceID, name, exceptID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}
	return nil
}

func checkCapacity(base, maxCap int) error {
	if maxCap < base {
		return &ValidationError{
			Message: "max_capacity must not be below base_capacity",
			Fields:  map[string]string{"max_capacity": "gtefield"},
		}
	}
	return nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
