package bulkedit

import (
	"testing"
	"time"

	"backoffice/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanel_OpenWithoutInitialUsesDefaults(t *testing.T) {
	p := NewPanel()
	p.SetPrice("999")

	p.Open(5, nil)

	assert.True(t, p.IsOpen())
	assert.Equal(t, 5, p.SelectedCount())
	assert.Equal(t, Form{AvailableRooms: "1", IsAvailable: true}, p.Form())
	_, ok := p.Discount()
	assert.False(t, ok)
}

func TestPanel_OpenWithInitialPrefills(t *testing.T) {
	p := NewPanel()
	p.Open(3, &domain.AvailabilityPeriod{Price: 180, OriginalPrice: 300, AvailableRooms: 4, IsAvailable: false})

	assert.Equal(t, Form{Price: "180", OriginalPrice: "300", AvailableRooms: "4", IsAvailable: false}, p.Form())
	pct, ok := p.Discount()
	assert.True(t, ok)
	assert.Equal(t, 40, pct)
}

func TestPanel_DiscountTracksInput(t *testing.T) {
	p := NewPanel()
	p.Open(1, nil)

	p.SetOriginalPrice("200")
	_, ok := p.Discount()
	assert.False(t, ok)

	p.SetPrice("150")
	pct, ok := p.Discount()
	assert.True(t, ok)
	assert.Equal(t, 25, pct)

	p.SetOriginalPrice("0")
	_, ok = p.Discount()
	assert.False(t, ok)

	p.SetOriginalPrice("abc")
	_, ok = p.Discount()
	assert.False(t, ok)
}

func TestPanel_ApplyPattern(t *testing.T) {
	p := NewPanel()
	p.Open(2, nil)
	p.SetAvailable(false)

	require.NoError(t, p.ApplyPattern("promo"))
	assert.Equal(t, Form{Price: "80", OriginalPrice: "100", AvailableRooms: "5", IsAvailable: false}, p.Form())

	assert.Error(t, p.ApplyPattern("nope"))
}

func TestPanel_SubmitValidation(t *testing.T) {
	cases := []struct {
		name  string
		form  Form
		field string
		err   error
	}{
		{name: "missing price", form: Form{OriginalPrice: "100", AvailableRooms: "1"}, field: "price", err: ErrRequired},
		{name: "missing original", form: Form{Price: "100", AvailableRooms: "1"}, field: "original_price", err: ErrRequired},
		{name: "missing rooms", form: Form{Price: "100", OriginalPrice: "100"}, field: "available_rooms", err: ErrRequired},
		{name: "text price", form: Form{Price: "cheap", OriginalPrice: "100", AvailableRooms: "1"}, field: "price", err: ErrNotNumeric},
		{name: "fractional rooms", form: Form{Price: "1", OriginalPrice: "100", AvailableRooms: "1.5"}, field: "available_rooms", err: ErrNotNumeric},
		{name: "negative price", form: Form{Price: "-1", OriginalPrice: "100", AvailableRooms: "1"}, field: "price", err: ErrNegative},
		{name: "negative rooms", form: Form{Price: "1", OriginalPrice: "100", AvailableRooms: "-2"}, field: "available_rooms", err: ErrNegative},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.form.Parse()
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.field, fe.Field)
		})
	}
}

func TestPanel_SubmitAllowsPriceAboveOriginal(t *testing.T) {
	p := NewPanel()
	p.Open(1, nil)
	p.SetPrice("250")
	p.SetOriginalPrice("200")

	v, err := p.Submit()
	require.NoError(t, err)
	assert.Equal(t, Values{Price: 250, OriginalPrice: 200, AvailableRooms: 1, IsAvailable: true}, v)
	assert.Equal(t, "250", p.Form().Price)
}

func TestFanOut_OneRecordPerDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dates := []time.Time{
		time.Date(2025, time.March, 10, 0, 0, 0, 0, loc),
		time.Date(2025, time.March, 11, 0, 0, 0, 0, loc),
		time.Date(2025, time.March, 12, 0, 0, 0, 0, loc),
	}
	v := Values{Price: 150, OriginalPrice: 200, AvailableRooms: 3, IsAvailable: true}

	records := FanOut(v, 7, 9, dates)
	require.Len(t, records, len(dates))

	for i, r := range records {
		assert.Equal(t, dates[i].Format("2006-01-02"), r.Date)
		r.Date = ""
		assert.Equal(t, domain.AvailabilityPeriod{ExperienceID: 7, RoomTypeID: 9, Price: 150, OriginalPrice: 200, AvailableRooms: 3, IsAvailable: true}, r)
	}
}
