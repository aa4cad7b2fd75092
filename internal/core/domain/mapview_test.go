package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMapView(t *testing.T) {
	properties := []Property{
		{ID: "1", DevelopmentName: "Sea Breeze", Latitude: ptr(36.5), Longitude: ptr(-4.9), PriceFrom: ptr(300000.0), Images: []string{"a.jpg"}},
		{ID: "2", Title: "Town flat"},
		{ID: "3", DevelopmentName: "Hill Top", Latitude: ptr(36.7), Longitude: ptr(-4.4)},
	}

	view := BuildMapView(properties, "3")

	require.Len(t, view.Markers, 2)
	assert.Equal(t, MarkerIconDefault, view.Markers[0].Icon)
	assert.Equal(t, MarkerIconHovered, view.Markers[1].Icon)
	assert.Equal(t, "a.jpg", view.Markers[0].Popup.ImageURL)
	assert.Equal(t, "Sea Breeze", view.Markers[0].Popup.Title)
	assert.Len(t, view.Markers[0].Geohash, 7)

	require.NotNil(t, view.Bounds)
	assert.Equal(t, MapBounds{South: 36.5, West: -4.9, North: 36.7, East: -4.4}, *view.Bounds)
}

func TestBuildMapView_NoCoordinates(t *testing.T) {
	view := BuildMapView([]Property{{ID: "x"}}, "")

	assert.Empty(t, view.Markers)
	assert.Nil(t, view.Bounds)
}
