package domain

// ListingStatus - состояние потока поиска: idle -> loading -> (success | error)
type ListingStatus string

const (
	ListingIdle    ListingStatus = "idle"
	ListingLoading ListingStatus = "loading"
	ListingSuccess ListingStatus = "success"
	ListingError   ListingStatus = "error"
)

// DefaultPerPage - размер страницы, если конфигурация не задала другой
const DefaultPerPage = 12

// ListingSnapshot - копия состояния выдачи одной сессии
type ListingSnapshot struct {
	Status     ListingStatus `json:"status"`
	Properties []Property    `json:"properties"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PerPage    int           `json:"per_page"`
	HasMore    bool          `json:"has_more"`
	Error      string        `json:"error,omitempty"`
	Filters    FilterState   `json:"filters"`
}

// HasMorePages - приближенная проверка: страница заполнена целиком, значит, вероятно, есть еще
func HasMorePages(received, perPage int) bool {
	return perPage > 0 && received >= perPage
}
