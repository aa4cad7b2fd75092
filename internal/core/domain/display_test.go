package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPropertyDetailsView_LegacyAliases(t *testing.T) {
	p := Property{
		ID:           "42",
		Title:        "Villa Azul",
		City:         "MARBELLA",
		District:     "golden mile",
		Price:        ptr(750000.0),
		BedroomsFrom: ptr(3),
		AreaFrom:     ptr(180.0),
		Latitude:     ptr(36.51),
		Longitude:    ptr(-4.88),
		HasPool:      true,
	}

	view := NewPropertyDetailsView(p)

	assert.Equal(t, "Villa Azul", view.DevelopmentName)
	assert.Equal(t, view.DevelopmentName, view.Name)
	assert.Equal(t, "Golden Mile, Marbella", view.LocationLabel)
	assert.Equal(t, view.LocationLabel, view.Location)
	assert.Equal(t, 750000.0, *view.PriceFrom)
	assert.Equal(t, view.PriceFrom, view.LegacyPriceMin)
	assert.Equal(t, 3, *view.Beds)
	assert.Equal(t, 180.0, *view.Size)
	assert.Equal(t, 36.51, *view.Lat)
	assert.NotNil(t, view.Photos)
	assert.Equal(t, []string{"pool"}, view.Amenities)
	assert.Contains(t, view.PriceLabel, "€")
	assert.False(t, view.IsFallback)
}

func TestFallbackPropertyDetails(t *testing.T) {
	view := FallbackPropertyDetails("99", errors.New("boom"))

	assert.Equal(t, "Luxury Property", view.DevelopmentName)
	assert.Equal(t, "99", view.ID)
	assert.True(t, view.IsFallback)
	assert.Equal(t, "boom", view.FetchError)
}

func TestFormatPriceRange(t *testing.T) {
	assert.Equal(t, "Price on request", FormatPriceRange(nil, nil))
	assert.Contains(t, FormatPriceRange(ptr(100000.0), nil), "From ")
	assert.Contains(t, FormatPriceRange(nil, ptr(100000.0)), "Up to ")
	assert.Contains(t, FormatPriceRange(ptr(100000.0), ptr(200000.0)), " - ")
}
