package xano_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"listing-site/internal/core/domain"
	"strconv"
	"strings"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse - разные бэкенды называют токен по-разному
type loginResponse struct {
	AuthToken      string   `json:"authToken"`
	AuthTokenSnake string   `json:"auth_token"`
	Token          string   `json:"token"`
	AccessToken    string   `json:"access_token"`
	JWT            string   `json:"jwt"`
	User           *userDTO `json:"user"`
}

func (r loginResponse) token() string {
	for _, t := range []string{r.AuthToken, r.AuthTokenSnake, r.Token, r.AccessToken, r.JWT} {
		if t != "" {
			return t
		}
	}
	return ""
}

type userDTO struct {
	ID    flexibleString `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
}

// flexibleString принимает и строку, и число: Xano отдает целочисленные id
type flexibleString string

func (s *flexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexibleString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*s = flexibleString(n.String())
	return nil
}

// flexibleFloat - число, которое иногда приходит строкой ("36.51")
type flexibleFloat struct {
	value *float64
}

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		f.value = nil
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			f.value = nil
			return nil
		}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// нечисловое значение считаем отсутствующим, а не ошибкой всего ответа
		f.value = nil
		return nil
	}
	f.value = &v
	return nil
}

// flexibleBool - флаг удобств: true/false, 1/0 или их строковые записи. Остальное - false.
type flexibleBool bool

func (b *flexibleBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		*b = true
	default:
		*b = false
	}
	return nil
}

// flexibleImage - картинка строкой или объектом Xano {"url": ...} / {"path": ...}
type flexibleImage string

func (img *flexibleImage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*img = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*img = flexibleImage(s)
		return nil
	}
	if data[0] != '{' {
		*img = ""
		return nil
	}
	var obj struct {
		URL  string `json:"url"`
		Path string `json:"path"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		*img = ""
		return nil
	}
	if obj.URL != "" {
		*img = flexibleImage(obj.URL)
	} else {
		*img = flexibleImage(obj.Path)
	}
	return nil
}

// flexibleImages - список картинок; не-массив считается пустым списком
type flexibleImages []string

func (imgs *flexibleImages) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*imgs = nil
		return nil
	}
	var items []flexibleImage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			result = append(result, string(item))
		}
	}
	*imgs = result
	return nil
}

type propertyDTO struct {
	ID              flexibleString `json:"id"`
	DevelopmentName string         `json:"development_name"`
	Name            string         `json:"name"`
	Title           string         `json:"title"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	Status          string         `json:"status"`
	Developer       string         `json:"developer"`
	CompletionDate  string         `json:"completion_date"`

	Price     flexibleFloat `json:"price"`
	PriceFrom flexibleFloat `json:"price_from"`
	PriceTo   flexibleFloat `json:"price_to"`

	BedroomsFrom  flexibleFloat `json:"bedrooms_from"`
	BedroomsTo    flexibleFloat `json:"bedrooms_to"`
	BathroomsFrom flexibleFloat `json:"bathrooms_from"`
	BathroomsTo   flexibleFloat `json:"bathrooms_to"`
	AreaFrom      flexibleFloat `json:"area_from"`
	AreaTo        flexibleFloat `json:"area_to"`

	City      string        `json:"city"`
	District  string        `json:"district"`
	Address   string        `json:"address"`
	Latitude  flexibleFloat `json:"latitude"`
	Longitude flexibleFloat `json:"longitude"`
	Lat       flexibleFloat `json:"lat"`
	Lng       flexibleFloat `json:"lng"`

	HasPool     flexibleBool `json:"has_pool"`
	HasGarden   flexibleBool `json:"has_garden"`
	HasParking  flexibleBool `json:"has_parking"`
	HasSeaView  flexibleBool `json:"has_sea_view"`
	HasGym      flexibleBool `json:"has_gym"`
	IsFurnished flexibleBool `json:"is_furnished"`

	Images flexibleImages `json:"images"`
}

func toIntPtr(f flexibleFloat) *int {
	if f.value == nil {
		return nil
	}
	n := int(*f.value)
	return &n
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func (d propertyDTO) toDomain() domain.Property {
	developmentName := d.DevelopmentName
	if developmentName == "" {
		developmentName = d.Name
	}
	images := []string(d.Images)
	if images == nil {
		images = []string{}
	}

	return domain.Property{
		ID:              string(d.ID),
		DevelopmentName: developmentName,
		Title:           d.Title,
		Category:        d.Category,
		Description:     d.Description,
		Status:          d.Status,
		Developer:       d.Developer,
		CompletionDate:  d.CompletionDate,
		Price:           d.Price.value,
		PriceFrom:       d.PriceFrom.value,
		PriceTo:         d.PriceTo.value,
		BedroomsFrom:    toIntPtr(d.BedroomsFrom),
		BedroomsTo:      toIntPtr(d.BedroomsTo),
		BathroomsFrom:   toIntPtr(d.BathroomsFrom),
		BathroomsTo:     toIntPtr(d.BathroomsTo),
		AreaFrom:        d.AreaFrom.value,
		AreaTo:          d.AreaTo.value,
		City:            d.City,
		District:        d.District,
		Address:         d.Address,
		Latitude:        firstNonNil(d.Latitude.value, d.Lat.value),
		Longitude:       firstNonNil(d.Longitude.value, d.Lng.value),
		HasPool:         bool(d.HasPool),
		HasGarden:       bool(d.HasGarden),
		HasParking:      bool(d.HasParking),
		HasSeaView:      bool(d.HasSeaView),
		HasGym:          bool(d.HasGym),
		IsFurnished:     bool(d.IsFurnished),
		Images:          images,
	}
}
