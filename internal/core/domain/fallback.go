package domain

// FallbackPropertyName - имя демонстрационного объекта, который показывается вместо недоступного
const FallbackPropertyName = "Luxury Property"

func ptr[T any](v T) *T { return &v }

// FallbackProperty - захардкоженный объект для страницы, когда API недоступен.
// Страница при этом получает IsFallback=true, так что подмена видна явно.
func FallbackProperty(id string) Property {
	return Property{
		ID:              id,
		DevelopmentName: FallbackPropertyName,
		Title:           FallbackPropertyName,
		Category:        CategoryNewBuild,
		Description:     "Contemporary development with sea views, communal pool and landscaped gardens.",
		Status:          "available",
		Developer:       "Pro Part Developments",
		CompletionDate:  "2026-12",
		PriceFrom:       ptr(450000.0),
		PriceTo:         ptr(1250000.0),
		BedroomsFrom:    ptr(2),
		BedroomsTo:      ptr(4),
		BathroomsFrom:   ptr(2),
		BathroomsTo:     ptr(3),
		AreaFrom:        ptr(95.0),
		AreaTo:          ptr(210.0),
		City:            "Marbella",
		District:        "Nueva Andalucía",
		Latitude:        ptr(36.4944),
		Longitude:       ptr(-4.9600),
		HasPool:         true,
		HasGarden:       true,
		HasParking:      true,
		HasSeaView:      true,
		Images: []string{
			"/images/fallback/luxury-property-1.jpg",
			"/images/fallback/luxury-property-2.jpg",
		},
	}
}

// FallbackPropertyDetails строит модель страницы из демонстрационного объекта и помечает ее
func FallbackPropertyDetails(id string, fetchErr error) PropertyDetailsView {
	view := NewPropertyDetailsView(FallbackProperty(id))
	view.IsFallback = true
	if fetchErr != nil {
		view.FetchError = fetchErr.Error()
	}
	return view
}
