package bulkedit

import (
	"fmt"
	"time"

	"backoffice/internal/calendar"
	"backoffice/internal/domain"
)

// Pattern is a canned set of values offered as a one-tap shortcut.
type Pattern struct {
	Name           string
	Label          string
	Price          string
	OriginalPrice  string
	AvailableRooms string
}

var Patterns = []Pattern{
	{Name: "standard", Label: "Standard rate", Price: "100", OriginalPrice: "100", AvailableRooms: "5"},
	{Name: "weekend", Label: "Weekend premium", Price: "150", OriginalPrice: "150", AvailableRooms: "3"},
	{Name: "promo", Label: "Promotion -20%", Price: "80", OriginalPrice: "100", AvailableRooms: "5"},
	{Name: "last_rooms", Label: "Last rooms", Price: "180", OriginalPrice: "200", AvailableRooms: "1"},
}

func FindPattern(name string) (Pattern, bool) {
	for _, p := range Patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Panel is the bulk edit sheet. It is not safe for concurrent use.
type Panel struct {
	form          Form
	selectedCount int
	open          bool
}

func NewPanel() *Panel {
	return &Panel{form: DefaultForm()}
}

// Open shows the panel for selectedCount days. With initial the form starts from that
// stored record; without it the form resets to defaults.
func (p *Panel) Open(selectedCount int, initial *domain.AvailabilityPeriod) {
	p.open = true
	p.selectedCount = selectedCount
	if initial != nil {
		p.form = FormFrom(*initial)
		return
	}
	p.form = DefaultForm()
}

func (p *Panel) Close() {
	p.open = false
	p.selectedCount = 0
}

func (p *Panel) IsOpen() bool { return p.open }

func (p *Panel) SelectedCount() int { return p.selectedCount }

func (p *Panel) Form() Form { return p.form }

func (p *Panel) SetPrice(v string) { p.form.Price = v }

func (p *Panel) SetOriginalPrice(v string) { p.form.OriginalPrice = v }

func (p *Panel) SetAvailableRooms(v string) { p.form.AvailableRooms = v }

func (p *Panel) SetAvailable(v bool) { p.form.IsAvailable = v }

// Discount is recomputed from the current input on every call.
func (p *Panel) Discount() (int, bool) {
	return DeriveDiscount(p.form.Price, p.form.OriginalPrice)
}

func (p *Panel) ApplyPattern(name string) error {
	pat, ok := FindPattern(name)
	if !ok {
		return fmt.Errorf("unknown pattern %q", name)
	}
	p.form.Price = pat.Price
	p.form.OriginalPrice = pat.OriginalPrice
	p.form.AvailableRooms = pat.AvailableRooms
	return nil
}

// Submit parses the form. The form is left untouched either way so a failed
// save can be retried with the same input.
func (p *Panel) Submit() (Values, error) {
	return p.form.Parse()
}

// FanOut builds one upsert record per selected day, identical except for the date.
func FanOut(v Values, experienceID, roomTypeID int64, dates []time.Time) []domain.AvailabilityPeriod {
	out := make([]domain.AvailabilityPeriod, 0, len(dates))
	for _, d := range dates {
		out = append(out, domain.AvailabilityPeriod{
			ExperienceID:   experienceID,
			RoomTypeID:     roomTypeID,
			Date:           calendar.LocalDateKey(d),
			Price:          v.Price,
			OriginalPrice:  v.OriginalPrice,
			AvailableRooms: v.AvailableRooms,
			IsAvailable:    v.IsAvailable,
		})
	}
	return out
}
