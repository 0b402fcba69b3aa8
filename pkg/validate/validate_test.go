package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lng float64 `json:"lng" validate:"longitude"`
}

type sample struct {
	Name   string   `json:"name" validate:"required"`
	Kind   string   `json:"kind" validate:"oneof=food water"`
	Liters float64  `json:"liters" validate:"gte=0"`
	Steps  []string `json:"steps" validate:"min=1"`
	Date   *string  `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Where  *point   `json:"location,omitempty"`
}

func validSample() sample {
	return sample{Name: "x", Kind: "food", Steps: []string{"boil"}}
}

func TestValidate_Passes(t *testing.T) {
	s := validSample()
	date := "2025-06-15"
	s.Date = &date
	s.Where = &point{Lat: 0, Lng: -180}
	assert.NoError(t, New().Validate(s))
}

func TestValidate_MessagesUseJSONNames(t *testing.T) {
	date := "15/06/2025"
	err := New().Validate(sample{Kind: "gold", Liters: -1, Date: &date})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, []string{
		"name is required",
		"kind must be one of food, water",
		"liters must not be negative",
		"steps must not be empty",
		"date must be formatted YYYY-MM-DD",
	}, Messages(err))
}

func TestValidate_RejectsOutOfRangeCoordinates(t *testing.T) {
	v := New()
	for _, p := range []point{
		{Lat: 91, Lng: 0},
		{Lat: 0, Lng: 1e20},
		{Lat: 0, Lng: math.Inf(1)},
		{Lat: math.NaN(), Lng: 0},
	} {
		s := validSample()
		s.Where = &p
		assert.Error(t, v.Validate(s), "%v", p)
	}
}

func TestDetail(t *testing.T) {
	assert.Empty(t, Detail(nil))
	assert.Equal(t, "boom", Detail(errors.New("boom")))
	assert.False(t, IsValidation(errors.New("boom")))
}
