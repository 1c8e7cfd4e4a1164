package roomtype

type CreateRoomTypeRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Description  string   `json:"description" validate:"max=2000"`
	BaseCapacity int      `json:"base_capacity" validate:"required,gte=1"`
	MaxCapacity  int      `json:"max_capacity" validate:"required,gte=1"`
	Amenities    []string `json:"amenities" validate:"max=50,dive,required,max=100"`
	Images       []string `json:"images" validate:"max=20,dive,required,url"`
}

// UpdateRoomTypeRequest is a partial update; nil fields are left untouched.
type UpdateRoomTypeRequest struct {
	Name         *string   `json:"name" validate:"omitempty,max=255"`
	Description  *string   `json:"description" validate:"omitempty,max=2000"`
	BaseCapacity *int      `json:"base_capacity" validate:"omitempty,gte=1"`
	MaxCapacity  *int      `json:"max_capacity" validate:"omitempty,gte=1"`
	Amenities    *[]string `json:"amenities" validate:"omitempty,max=50,dive,required,max=100"`
	Images       *[]string `json:"images" validate:"omitempty,max=20,dive,required,url"`
}

func (r UpdateRoomTypeRequest) empty() bool {
	return r.Name == nil && r.Description == nil && r.BaseCapacity == nil &&
		r.MaxCapacity == nil && r.Amenities == nil && r.Images == nil
}
