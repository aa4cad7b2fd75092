package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Сайт работает с испанской недвижимостью: цены в евро, разделители по испанской локали
var displayLanguage = language.Spanish

const priceOnRequest = "Price on request"

// FormatPrice форматирует сумму в евро, например "350.000 €"
func FormatPrice(amount float64) string {
	return message.NewPrinter(displayLanguage).Sprintf("%d €", int64(amount))
}

// FormatPriceRange - подпись цены для карточки, попапа на карте и страницы объекта
func FormatPriceRange(from, to *float64) string {
	switch {
	case from != nil && to != nil && *to > *from:
		return FormatPrice(*from) + " - " + FormatPrice(*to)
	case from != nil:
		return "From " + FormatPrice(*from)
	case to != nil:
		return "Up to " + FormatPrice(*to)
	default:
		return priceOnRequest
	}
}

// FormatLocation собирает "Район, Город" с нормализованным регистром
func FormatLocation(district, city string) string {
	// Caser хранит состояние, поэтому создается на каждый вызов
	caser := cases.Title(displayLanguage)
	parts := make([]string, 0, 2)
	for _, p := range []string{district, city} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, caser.String(strings.ToLower(p)))
		}
	}
	return strings.Join(parts, ", ")
}

// PropertyDetailsView - модель страницы объекта.
// Вторая группа полей - старые имена, которые до сих пор читают компоненты галереи и карточек.
type PropertyDetailsView struct {
	ID              string   `json:"id"`
	DevelopmentName string   `json:"development_name"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Category        string   `json:"category"`
	Status          string   `json:"status"`
	Developer       string   `json:"developer"`
	CompletionDate  string   `json:"completion_date"`
	PriceFrom       *float64 `json:"price_from"`
	PriceTo         *float64 `json:"price_to"`
	PriceLabel      string   `json:"price_label"`
	BedroomsFrom    *int     `json:"bedrooms_from"`
	BedroomsTo      *int     `json:"bedrooms_to"`
	BathroomsFrom   *int     `json:"bathrooms_from"`
	BathroomsTo     *int     `json:"bathrooms_to"`
	AreaFrom        *float64 `json:"area_from"`
	AreaTo          *float64 `json:"area_to"`
	City            string   `json:"city"`
	District        string   `json:"district"`
	Address         string   `json:"address"`
	LocationLabel   string   `json:"location_label"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Images          []string `json:"images"`
	Amenities       []string `json:"amenities"`

	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Photos         []string `json:"photos"`
	Beds           *int     `json:"beds"`
	Baths          *int     `json:"baths"`
	Size           *float64 `json:"size"`
	LegacyPriceMin *float64 `json:"priceFrom"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`

	IsFallback bool   `json:"is_fallback"`
	FetchError string `json:"fetch_error,omitempty"`
}

// NewPropertyDetailsView переносит поля API в модель отображения и заполняет старые алиасы
func NewPropertyDetailsView(p Property) PropertyDetailsView {
	priceFrom := p.StartingPrice()
	images := p.Images
	if images == nil {
		images = []string{}
	}
	location := FormatLocation(p.District, p.City)
	if location == "" {
		location = p.Address
	}

	return PropertyDetailsView{
		ID:              p.ID,
		DevelopmentName: p.DisplayTitle(),
		Title:           p.Title,
		Description:     p.Description,
		Category:        p.Category,
		Status:          p.Status,
		Developer:       p.Developer,
		CompletionDate:  p.CompletionDate,
		PriceFrom:       priceFrom,
		PriceTo:         p.PriceTo,
		PriceLabel:      FormatPriceRange(priceFrom, p.PriceTo),
		BedroomsFrom:    p.BedroomsFrom,
		BedroomsTo:      p.BedroomsTo,
		BathroomsFrom:   p.BathroomsFrom,
		BathroomsTo:     p.BathroomsTo,
		AreaFrom:        p.AreaFrom,
		AreaTo:          p.AreaTo,
		City:            p.City,
		District:        p.District,
		Address:         p.Address,
		LocationLabel:   location,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Images:          images,
		Amenities:       p.Amenities(),

		Name:           p.DisplayTitle(),
		Location:       location,
		Photos:         images,
		Beds:           p.BedroomsFrom,
		Baths:          p.BathroomsFrom,
		Size:           p.AreaFrom,
		LegacyPriceMin: priceFrom,
		Lat:            p.Latitude,
		Lng:            p.Longitude,
	}
}
