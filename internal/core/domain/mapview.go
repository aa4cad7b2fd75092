package domain

import "github.com/mmcloughlin/geohash"

const (
	MarkerIconDefault = "default"
	MarkerIconHovered = "hovered"

	markerGeohashPrecision = 7
)

type MapPopup struct {
	Title      string `json:"title"`
	PriceLabel string `json:"price_label"`
	ImageURL   string `json:"image_url,omitempty"`
}

type MapMarker struct {
	PropertyID string   `json:"property_id"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Geohash    string   `json:"geohash"`
	Icon       string   `json:"icon"`
	Popup      MapPopup `json:"popup"`
}

type MapBounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// MapView - все, что нужно Leaflet в браузере, чтобы нарисовать маркеры и подогнать масштаб
type MapView struct {
	Markers []MapMarker `json:"markers"`
	Bounds  *MapBounds  `json:"bounds"`
}

// BuildMapView пересчитывает маркеры и границы для списка объектов.
// Объекты без координат пропускаются, hoveredID получает отдельную иконку.
func BuildMapView(properties []Property, hoveredID string) MapView {
	view := MapView{Markers: make([]MapMarker, 0, len(properties))}

	for _, p := range properties {
		if !p.HasCoordinates() {
			continue
		}
		lat, lng := *p.Latitude, *p.Longitude

		icon := MarkerIconDefault
		if hoveredID != "" && p.ID == hoveredID {
			icon = MarkerIconHovered
		}

		popup := MapPopup{
			Title:      p.DisplayTitle(),
			PriceLabel: FormatPriceRange(p.StartingPrice(), p.PriceTo),
		}
		if len(p.Images) > 0 {
			popup.ImageURL = p.Images[0]
		}

		view.Markers = append(view.Markers, MapMarker{
			PropertyID: p.ID,
			Lat:        lat,
			Lng:        lng,
			Geohash:    geohash.EncodeWithPrecision(lat, lng, markerGeohashPrecision),
			Icon:       icon,
			Popup:      popup,
		})

		if view.Bounds == nil {
			view.Bounds = &MapBounds{South: lat, West: lng, North: lat, East: lng}
			continue
		}
		view.Bounds.South = min(view.Bounds.South, lat)
		view.Bounds.North = max(view.Bounds.North, lat)
		view.Bounds.West = min(view.Bounds.West, lng)
		view.Bounds.East = max(view.Bounds.East, lng)
	}

	return view
}
