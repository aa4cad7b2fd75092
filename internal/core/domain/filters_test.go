package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncURL_EmptyFiltersHaveNoQueryString(t *testing.T) {
	cases := map[string]FilterState{
		"nil map":   nil,
		"empty map": {},
		"all empty values": {
			FilterSearch:    StringValue(""),
			FilterCity:      StringValue(""),
			FilterAmenities: ListValue(),
			FilterPool:      BoolValue(false),
		},
	}

	for name, filters := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "/listings", SyncURL("/listings", filters))
			assert.True(t, filters.IsEmpty())
		})
	}
}

func TestFilterQuery_RoundTrip(t *testing.T) {
	filters := FilterState{
		FilterSearch:        StringValue("sea view penthouse"),
		FilterCity:          StringValue("Marbella"),
		FilterPriceMin:      IntValue(250000),
		FilterPriceMax:      IntValue(900000),
		FilterBedrooms:      IntValue(3),
		FilterPool:          BoolValue(true),
		FilterSeaView:       BoolValue(true),
		FilterAmenities:     ListValue("gym", "spa"),
		FilterPropertyTypes: ListValue("villa"),
	}

	url := SyncURL("/listings", filters)
	require.Contains(t, url, "?")

	query := url[len("/listings?"):]
	decoded := ParseFilterQuery(query)

	assert.True(t, filters.Equal(decoded), "decoded %v, want %v", decoded, filters)
}

func TestParseFilterQuery_Types(t *testing.T) {
	state := ParseFilterQuery("?bedrooms=2&pool=true&garden=false&city=Estepona&amenities=gym,%20spa,&page=3&utm_source=mail")

	beds, ok := state[FilterBedrooms].Int()
	require.True(t, ok)
	assert.Equal(t, 2, beds)

	assert.Equal(t, KindBool, state[FilterPool].Kind())
	assert.True(t, state[FilterPool].Bool())
	assert.False(t, state[FilterGarden].Bool())

	assert.Equal(t, "Estepona", state[FilterCity].Text())
	assert.Equal(t, []string{"gym", "spa"}, state[FilterAmenities].List())

	_, hasPage := state["page"]
	assert.False(t, hasPage)
	_, hasUTM := state["utm_source"]
	assert.False(t, hasUTM)
}

func TestParseFilterQuery_NumericBestEffort(t *testing.T) {
	state := ParseFilterQuery("price_min=120abc&price_max=abc&bathrooms=%20-2")

	min, ok := state[FilterPriceMin].Int()
	require.True(t, ok)
	assert.Equal(t, 120, min)

	// Мусор не отбрасывается, а остается невалидным числом
	require.Contains(t, state, FilterPriceMax)
	assert.True(t, state[FilterPriceMax].IsNaN())
	assert.Equal(t, "NaN", state[FilterPriceMax].String())

	baths, ok := state[FilterBathrooms].Int()
	require.True(t, ok)
	assert.Equal(t, -2, baths)
}

func TestFilterState_JSONPersistence(t *testing.T) {
	filters := FilterState{
		FilterSearch:    StringValue("golf"),
		FilterBedrooms:  IntValue(4),
		FilterPriceMax:  NaNValue(),
		FilterParking:   BoolValue(true),
		FilterAmenities: ListValue("pool"),
	}

	raw, err := json.Marshal(filters)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"price_max":null`)

	var restored FilterState
	require.NoError(t, json.Unmarshal(raw, &restored))

	_, hasNaN := restored[FilterPriceMax]
	assert.False(t, hasNaN)

	expected := filters.Clone()
	delete(expected, FilterPriceMax)
	assert.True(t, expected.Equal(restored))
}

func TestFilterValue_EmptyVersusDefault(t *testing.T) {
	assert.False(t, BoolValue(false).IsEmpty())
	assert.True(t, BoolValue(false).IsDefault())
	assert.False(t, IntValue(0).IsDefault())
	assert.False(t, NaNValue().IsDefault())
	assert.True(t, StringValue("").IsEmpty())
}

func TestFilterState_MinGreaterThanMaxIsKept(t *testing.T) {
	state := ParseFilterQuery("price_min=900000&price_max=100000")

	min, _ := state[FilterPriceMin].Int()
	max, _ := state[FilterPriceMax].Int()
	assert.Equal(t, 900000, min)
	assert.Equal(t, 100000, max)
}

func TestFilterState_NormalizeCoercesByKey(t *testing.T) {
	var filters FilterState
	require.NoError(t, json.Unmarshal([]byte(`{"price_min":"250000","pool":"1","amenities":"gym, spa","city":"Marbella","bedrooms":2,"custom":"x"}`), &filters))

	got := filters.Normalize()

	n, ok := got[FilterPriceMin].Int()
	require.True(t, ok)
	assert.Equal(t, 250000, n)
	assert.True(t, got[FilterPool].Bool())
	assert.Equal(t, []string{"gym", "spa"}, got[FilterAmenities].List())
	assert.Equal(t, "Marbella", got[FilterCity].Text())
	assert.Equal(t, "x", got["custom"].Text())

	bedrooms, ok := got[FilterBedrooms].Int()
	require.True(t, ok)
	assert.Equal(t, 2, bedrooms)
}
