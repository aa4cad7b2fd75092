package domain

import "time"

type SearchPerformedEvent struct {
	SessionID  string            `json:"session_id"`
	Filters    map[string]string `json:"filters"`
	Total      int               `json:"total"`
	OccurredAt time.Time         `json:"occurred_at"`
}

type PropertyViewedEvent struct {
	SessionID  string    `json:"session_id"`
	PropertyID string    `json:"property_id"`
	IsFallback bool      `json:"is_fallback"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FiltersForEvent - плоское строковое представление активных фильтров
func FiltersForEvent(filters FilterState) map[string]string {
	active := filters.Active()
	flat := make(map[string]string, len(active))
	for k, v := range active {
		flat[k] = v.String()
	}
	return flat
}
