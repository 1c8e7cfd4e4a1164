// Package bulkedit is the batch price and availability form applied to every selected day.
package bulkedit

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"backoffice/internal/domain"

	"github.com/go-playground/validator/v10"
)

var (
	ErrRequired   = errors.New("required")
	ErrNotNumeric = errors.New("not a number")
	ErrNegative   = errors.New("must not be negative")
)

var validate = validator.New()

// FieldError names the form field that rejected the submission.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// Form holds the raw input strings, the way a user typed them.
type Form struct {
	Price          string
	OriginalPrice  string
	AvailableRooms string
	IsAvailable    bool
}

func DefaultForm() Form {
	return Form{AvailableRooms: "1", IsAvailable: true}
}

// FormFrom pre-fills the form from a stored record.
func FormFrom(p domain.AvailabilityPeriod) Form {
	return Form{
		Price:          formatAmount(p.Price),
		OriginalPrice:  formatAmount(p.OriginalPrice),
		AvailableRooms: strconv.Itoa(p.AvailableRooms),
		IsAvailable:    p.IsAvailable,
	}
}

// Values is a parsed submission.
type Values struct {
	Price          float64 `validate:"gte=0"`
	OriginalPrice  float64 `validate:"gte=0"`
	AvailableRooms int     `validate:"gte=0"`
	IsAvailable    bool
}

// Parse applies the field-level constraints only: every field required, numeric and
// not negative. No cross-field rule is checked.
func (f Form) Parse() (Values, error) {
	price, err := parseAmount("price", f.Price)
	if err != nil {
		return Values{}, err
	}
	original, err := parseAmount("original_price", f.OriginalPrice)
	if err != nil {
		return Values{}, err
	}
	rooms, err := parseRooms(f.AvailableRooms)
	if err != nil {
		return Values{}, err
	}

	v := Values{
		Price:          price,
		OriginalPrice:  original,
		AvailableRooms: rooms,
		IsAvailable:    f.IsAvailable,
	}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Values{}, &FieldError{Field: fieldName(verrs[0].Field()), Err: ErrNegative}
		}
		return Values{}, err
	}
	return v, nil
}

// DeriveDiscount computes the displayed discount from raw price strings.
// ok is false when either value does not parse or the original price is not positive.
func DeriveDiscount(price, originalPrice string) (int, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return 0, false
	}
	o, err := strconv.ParseFloat(strings.TrimSpace(originalPrice), 64)
	if err != nil {
		return 0, false
	}
	return domain.DiscountPercentage(p, o)
}

func parseAmount(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &FieldError{Field: field, Err: ErrRequired}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FieldError{Field: field, Err: ErrNotNumeric}
	}
	return v, nil
}

func parseRooms(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &FieldError{Field: "available_rooms", Err: ErrRequired}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &FieldError{Field: "available_rooms", Err: ErrNotNumeric}
	}
	return n, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func fieldName(structField string) string {
	switch structField {
	case "Price":
		return "price"
	case "OriginalPrice":
		return "original_price"
	case "AvailableRooms":
		return "available_rooms"
	}
	return strings.ToLower(structField)
}
