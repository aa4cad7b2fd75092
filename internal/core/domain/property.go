package domain

// Категории объектов, которые отдает upstream API
const (
	CategoryNewBuild  = "new_build"
	CategorySecondary = "secondary"
	CategoryRental    = "rental"
)

// Property - объект недвижимости в том виде, в котором он показывается в сетке поиска.
// Почти все поля опциональны: схема upstream отличается между категориями.
type Property struct {
	ID              string `json:"id"`
	DevelopmentName string `json:"development_name,omitempty"`
	Title           string `json:"title,omitempty"`
	Category        string `json:"category,omitempty"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status,omitempty"`
	Developer       string `json:"developer,omitempty"`
	CompletionDate  string `json:"completion_date,omitempty"`

	Price     *float64 `json:"price,omitempty"`
	PriceFrom *float64 `json:"price_from,omitempty"`
	PriceTo   *float64 `json:"price_to,omitempty"`

	BedroomsFrom  *int     `json:"bedrooms_from,omitempty"`
	BedroomsTo    *int     `json:"bedrooms_to,omitempty"`
	BathroomsFrom *int     `json:"bathrooms_from,omitempty"`
	BathroomsTo   *int     `json:"bathrooms_to,omitempty"`
	AreaFrom      *float64 `json:"area_from,omitempty"`
	AreaTo        *float64 `json:"area_to,omitempty"`

	City      string   `json:"city,omitempty"`
	District  string   `json:"district,omitempty"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	HasPool     bool `json:"has_pool"`
	HasGarden   bool `json:"has_garden"`
	HasParking  bool `json:"has_parking"`
	HasSeaView  bool `json:"has_sea_view"`
	HasGym      bool `json:"has_gym"`
	IsFurnished bool `json:"is_furnished"`

	Images []string `json:"images"`
}

// PropertiesPage - нормализованный ответ на поиск, независимо от формы ответа upstream
type PropertiesPage struct {
	Data       []Property `json:"data"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PerPage    int        `json:"per_page"`
	TotalPages int        `json:"total_pages"`
	// Received - сколько элементов прислал upstream до отбраковки элементов без id
	Received int `json:"-"`
}

// ReceivedCount - размер страницы upstream; для страниц без Received это len(Data)
func (p PropertiesPage) ReceivedCount() int {
	if p.Received > len(p.Data) {
		return p.Received
	}
	return len(p.Data)
}

// DisplayTitle возвращает заголовок карточки
func (p Property) DisplayTitle() string {
	switch {
	case p.DevelopmentName != "":
		return p.DevelopmentName
	case p.Title != "":
		return p.Title
	default:
		return "Property " + p.ID
	}
}

// StartingPrice - цена "от": price_from, а для вторички и аренды просто price
func (p Property) StartingPrice() *float64 {
	if p.PriceFrom != nil {
		return p.PriceFrom
	}
	return p.Price
}

// HasCoordinates - можно ли поставить объект на карту
func (p Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Amenities собирает флаги удобств в список ключей
func (p Property) Amenities() []string {
	amenities := make([]string, 0, 6)
	if p.HasPool {
		amenities = append(amenities, "pool")
	}
	if p.HasGarden {
		amenities = append(amenities, "garden")
	}
	if p.HasParking {
		amenities = append(amenities, "parking")
	}
	if p.HasSeaView {
		amenities = append(amenities, "sea_view")
	}
	if p.HasGym {
		amenities = append(amenities, "gym")
	}
	if p.IsFurnished {
		amenities = append(amenities, "furnished")
	}
	return amenities
}
