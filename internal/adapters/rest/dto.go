package rest

import "listing-site/internal/core/domain"

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SearchRequest struct {
	Filters domain.FilterState `json:"filters"`
}

type ScrollRequest struct {
	Offset *int `json:"offset"`
}

type ScrollResponse struct {
	Offset int  `json:"offset"`
	Found  bool `json:"found"`
}

// ListingResponse - состояние выдачи плюс канонический URL для history.replaceState
type ListingResponse struct {
	domain.ListingSnapshot
	URL string `json:"url"`
}

type FiltersResponse struct {
	Filters domain.FilterState `json:"filters"`
	URL     string             `json:"url"`
}

type SuggestionsResponse struct {
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
