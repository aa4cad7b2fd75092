package domain

const (
	SuggestionDevelopment = "development"
	SuggestionCity        = "city"
)

// Suggestion - подсказка в строке поиска
type Suggestion struct {
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	PropertyID string `json:"property_id,omitempty"`
}
