package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// ValueKind - тип значения фильтра
type ValueKind int

const (
	KindString ValueKind = iota
	KindInt
	KindBool
	KindList
)

// Ключи фильтров. В URL используются ровно эти имена.
const (
	FilterSearch        = "search"
	FilterCategory      = "category"
	FilterCity          = "city"
	FilterDistrict      = "district"
	FilterSort          = "sort"
	FilterStatus        = "status"
	FilterPriceMin      = "price_min"
	FilterPriceMax      = "price_max"
	FilterBedrooms      = "bedrooms"
	FilterBathrooms     = "bathrooms"
	FilterAreaMin       = "area_min"
	FilterAreaMax       = "area_max"
	FilterPool          = "pool"
	FilterGarden        = "garden"
	FilterParking       = "parking"
	FilterSeaView       = "sea_view"
	FilterGym           = "gym"
	FilterFurnished     = "furnished"
	FilterNewBuild      = "new_build"
	FilterAmenities     = "amenities"
	FilterPropertyTypes = "property_types"
)

var filterKeyKinds = map[string]ValueKind{
	FilterSearch:   KindString,
	FilterCategory: KindString,
	FilterCity:     KindString,
	FilterDistrict: KindString,
	FilterSort:     KindString,
	FilterStatus:   KindString,

	FilterPriceMin:  KindInt,
	FilterPriceMax:  KindInt,
	FilterBedrooms:  KindInt,
	FilterBathrooms: KindInt,
	FilterAreaMin:   KindInt,
	FilterAreaMax:   KindInt,

	FilterPool:      KindBool,
	FilterGarden:    KindBool,
	FilterParking:   KindBool,
	FilterSeaView:   KindBool,
	FilterGym:       KindBool,
	FilterFurnished: KindBool,
	FilterNewBuild:  KindBool,

	FilterAmenities:     KindList,
	FilterPropertyTypes: KindList,
}

// FilterKeyKind сообщает, как разбирать ключ из URL. ok=false для ключей, которые не являются фильтрами.
func FilterKeyKind(key string) (ValueKind, bool) {
	kind, ok := filterKeyKinds[key]
	return kind, ok
}

// FilterValue - примитивное значение фильтра.
// Число может быть "невалидным" (аналог NaN): так ведет себя parseInt на мусоре из URL.
type FilterValue struct {
	kind ValueKind
	str  string
	num  int
	nan  bool
	flag bool
	list []string
}

func StringValue(s string) FilterValue { return FilterValue{kind: KindString, str: s} }
func IntValue(n int) FilterValue       { return FilterValue{kind: KindInt, num: n} }
func NaNValue() FilterValue            { return FilterValue{kind: KindInt, nan: true} }
func BoolValue(b bool) FilterValue     { return FilterValue{kind: KindBool, flag: b} }

func ListValue(items ...string) FilterValue {
	return FilterValue{kind: KindList, list: slices.Clone(items)}
}

func (v FilterValue) Kind() ValueKind { return v.kind }
func (v FilterValue) Text() string    { return v.str }
func (v FilterValue) Bool() bool      { return v.flag }
func (v FilterValue) IsNaN() bool     { return v.kind == KindInt && v.nan }
func (v FilterValue) List() []string  { return slices.Clone(v.list) }

// Int возвращает ok=false для NaN и для нечисловых значений
func (v FilterValue) Int() (int, bool) {
	if v.kind != KindInt || v.nan {
		return 0, false
	}
	return v.num, true
}

// IsEmpty - null/undefined/"" в терминах query-параметров API
func (v FilterValue) IsEmpty() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.list) == 0
	default:
		return false
	}
}

// IsDefault - значение, которое не попадает в URL страницы выдачи
func (v FilterValue) IsDefault() bool {
	if v.kind == KindBool {
		return !v.flag
	}
	return v.IsEmpty()
}

// String - представление значения в query string
func (v FilterValue) String() string {
	switch v.kind {
	case KindInt:
		if v.nan {
			return "NaN"
		}
		return strconv.Itoa(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindList:
		return strings.Join(v.list, ",")
	default:
		return v.str
	}
}

func (v FilterValue) Equal(other FilterValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.nan == other.nan && (v.nan || v.num == other.num)
	case KindBool:
		return v.flag == other.flag
	case KindList:
		return slices.Equal(v.list, other.list)
	default:
		return v.str == other.str
	}
}

// MarshalJSON: NaN сохраняется как null, как это делает JSON.stringify
func (v FilterValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		if v.nan {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.flag)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return json.Marshal(v.str)
	}
}

func (v *FilterValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty filter value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			items = append(items, fmt.Sprint(item))
		}
		*v = ListValue(items...)
	case 'n':
		*v = NaNValue()
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("unsupported filter value %s: %w", string(data), err)
		}
		*v = IntValue(int(f))
	}
	return nil
}

// FilterState - плоский набор активных ограничений поиска.
// Комбинации не валидируются: price_min > price_max допустимо.
type FilterState map[string]FilterValue

func (f FilterState) Clone() FilterState {
	clone := make(FilterState, len(f))
	for k, v := range f {
		clone[k] = v
	}
	return clone
}

// Active возвращает только значения, отличные от значений по умолчанию
func (f FilterState) Active() FilterState {
	active := make(FilterState, len(f))
	for k, v := range f {
		if !v.IsDefault() {
			active[k] = v
		}
	}
	return active
}

// IsEmpty - нет ни одного значимого фильтра
func (f FilterState) IsEmpty() bool {
	return len(f.Active()) == 0
}

func (f FilterState) Equal(other FilterState) bool {
	if len(f) != len(other) {
		return false
	}
	for k, v := range f {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// UnmarshalJSON пропускает null-значения: так выглядит NaN после сохранения
func (f *FilterState) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	state := make(FilterState, len(raw))
	for key, msg := range raw {
		if string(bytes.TrimSpace(msg)) == "null" {
			continue
		}
		var v FilterValue
		if err := v.UnmarshalJSON(msg); err != nil {
			return fmt.Errorf("filter %q: %w", key, err)
		}
		state[key] = v
	}
	*f = state
	return nil
}

// Normalize приводит значения известных ключей к их типу: так фильтры из JSON-тела
// ведут себя так же, как фильтры из URL. Неизвестные ключи остаются как есть.
func (f FilterState) Normalize() FilterState {
	normalized := make(FilterState, len(f))
	for key, v := range f {
		kind, ok := FilterKeyKind(key)
		if !ok || v.kind == kind {
			normalized[key] = v
			continue
		}
		switch {
		case kind == KindInt && v.kind == KindString:
			normalized[key] = parseIntBestEffort(v.str)
		case kind == KindBool && v.kind == KindString:
			normalized[key] = BoolValue(v.str == "true" || v.str == "1")
		case kind == KindList && v.kind == KindString:
			normalized[key] = ListValue(splitList(v.str)...)
		case kind == KindString:
			normalized[key] = StringValue(v.String())
		default:
			normalized[key] = v
		}
	}
	return normalized
}

// ParseFilterQuery разбирает query string страницы выдачи в типизированные фильтры.
// Числовые ключи - parseInt-подобный разбор без проверки границ, флаги - булевы,
// списки - через запятую, остальное - строки. Ключи, не являющиеся фильтрами, игнорируются.
func ParseFilterQuery(rawQuery string) FilterState {
	rawQuery = strings.TrimPrefix(rawQuery, "?")
	// ParseQuery возвращает все, что смог разобрать, даже при ошибке
	values, _ := url.ParseQuery(rawQuery)

	state := make(FilterState)
	for key, vals := range values {
		kind, ok := FilterKeyKind(key)
		if !ok || len(vals) == 0 {
			continue
		}
		raw := vals[0]
		switch kind {
		case KindInt:
			state[key] = parseIntBestEffort(raw)
		case KindBool:
			state[key] = BoolValue(raw == "true" || raw == "1")
		case KindList:
			state[key] = ListValue(splitList(raw)...)
		default:
			state[key] = StringValue(raw)
		}
	}
	return state
}

// BuildFilterQuery кодирует фильтры для URL страницы, пропуская пустые и дефолтные значения
func BuildFilterQuery(filters FilterState) url.Values {
	values := url.Values{}
	for key, v := range filters {
		if v.IsDefault() {
			continue
		}
		values.Set(key, v.String())
	}
	return values
}

// SyncURL возвращает канонический URL выдачи для history.replaceState
func SyncURL(path string, filters FilterState) string {
	query := BuildFilterQuery(filters).Encode()
	if query == "" {
		return path
	}
	return path + "?" + query
}

// parseIntBestEffort повторяет parseInt: ведущие пробелы, знак, цифры до первого мусора
func parseIntBestEffort(raw string) FilterValue {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return NaNValue()
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return NaNValue()
	}
	return IntValue(n)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
