package roomtype

import (
	"errors"

	"backoffice/internal/access"
)

var (
	ErrValidation = errors.New("validation_error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = access.ErrForbidden
	ErrNotFound   = access.ErrNotFound
)

// ValidationError carries per-field failures. It matches ErrValidation.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
