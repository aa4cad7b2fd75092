package usecase

import (
	"context"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
	"strings"
	"unicode/utf8"
)

const (
	minSuggestionQueryLength = 2
	defaultSuggestionsLimit  = 5
)

type SuggestionsUseCase struct {
	api port.PropertiesAPIPort
}

func NewSuggestionsUseCase(api port.PropertiesAPIPort) *SuggestionsUseCase {
	return &SuggestionsUseCase{api: api}
}

// Execute ищет объекты по строке и собирает уникальные названия комплексов и городов
func (uc *SuggestionsUseCase) Execute(ctx context.Context, query string, limit int) ([]domain.Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQueryLength {
		return []domain.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = defaultSuggestionsLimit
	}

	filters := domain.FilterState{domain.FilterSearch: domain.StringValue(query)}
	page, err := uc.api.GetProperties(ctx, filters, 1, limit)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	suggestions := make([]domain.Suggestion, 0, limit)
	add := func(s domain.Suggestion) {
		key := s.Kind + ":" + strings.ToLower(s.Label)
		if _, ok := seen[key]; ok || s.Label == "" || len(suggestions) >= limit {
			return
		}
		seen[key] = struct{}{}
		suggestions = append(suggestions, s)
	}

	for _, p := range page.Data {
		label := p.DevelopmentName
		if label == "" {
			label = p.Title
		}
		add(domain.Suggestion{Kind: domain.SuggestionDevelopment, Label: label, PropertyID: p.ID})
	}
	for _, p := range page.Data {
		add(domain.Suggestion{Kind: domain.SuggestionCity, Label: p.City})
	}

	return suggestions, nil
}
