package xano_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"listing-site/internal/contextkeys"
	"listing-site/internal/core/domain"
	"listing-site/internal/core/port"
)

// pagedEnvelope покрывает все известные формы ответа-объекта.
// Какой массив заполнен - так и называется форма.
type pagedEnvelope struct {
	Data       *[]json.RawMessage `json:"data"`
	Properties *[]json.RawMessage `json:"properties"`
	Items      *[]json.RawMessage `json:"items"`

	Total      *int `json:"total"`
	Page       *int `json:"page"`
	PerPage    *int `json:"per_page"`
	TotalPages *int `json:"total_pages"`

	// Пагинация Xano
	ItemsTotal  *int `json:"itemsTotal"`
	CurPage     *int `json:"curPage"`
	XanoPerPage *int `json:"perPage"`
	PageTotal   *int `json:"pageTotal"`
}

// normalizePropertiesResponse - единственная точка, где разные формы ответа upstream
// приводятся к domain.PropertiesPage. Неизвестная форма дает пустую страницу без ошибки.
func normalizePropertiesResponse(ctx context.Context, body []byte, page, perPage int) *domain.PropertiesPage {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "XanoAPIClient",
		"method":    "normalizePropertiesResponse",
	})

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		logger.Warn("Empty properties response body", nil)
		return emptyPage(page, perPage)
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			logger.Warn("Failed to decode bare array response", port.Fields{"error": err.Error()})
			return emptyPage(page, perPage)
		}
		// total голого массива - число элементов, которые прислал upstream
		return buildPage(items, decodeItems(ctx, items), intPtr(len(items)), nil, nil, nil, page, perPage)

	case '{':
		var env pagedEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			logger.Warn("Failed to decode properties envelope", port.Fields{"error": err.Error()})
			return emptyPage(page, perPage)
		}

		switch {
		case env.Data != nil:
			return buildPage(*env.Data, decodeItems(ctx, *env.Data), env.Total, env.Page, env.PerPage, env.TotalPages, page, perPage)
		case env.Properties != nil:
			return buildPage(*env.Properties, decodeItems(ctx, *env.Properties), env.Total, env.Page, env.PerPage, env.TotalPages, page, perPage)
		case env.Items != nil:
			return buildPage(
				*env.Items,
				decodeItems(ctx, *env.Items),
				firstInt(env.ItemsTotal, env.Total),
				firstInt(env.CurPage, env.Page),
				firstInt(env.XanoPerPage, env.PerPage),
				firstInt(env.PageTotal, env.TotalPages),
				page, perPage,
			)
		}
	}

	logger.Warn("Unknown properties response shape, returning empty page", port.Fields{
		"body_prefix": truncate(string(trimmed), 200),
	})
	return emptyPage(page, perPage)
}

// decodeItems отбрасывает только элементы без id. Если остальные поля не маппятся,
// объект остается в выдаче с одним id.
func decodeItems(ctx context.Context, items []json.RawMessage) []domain.Property {
	logger := contextkeys.LoggerFromContext(ctx)

	result := make([]domain.Property, 0, len(items))
	for i, raw := range items {
		if err := validatePropertyItem(raw); err != nil {
			logger.Warn("Dropping invalid property item", port.Fields{"index": i, "error": err.Error()})
			continue
		}
		var dto propertyDTO
		if err := json.Unmarshal(raw, &dto); err != nil {
			var idOnly struct {
				ID flexibleString `json:"id"`
			}
			if idErr := json.Unmarshal(raw, &idOnly); idErr != nil || idOnly.ID == "" {
				logger.Warn("Dropping undecodable property item", port.Fields{"index": i, "error": err.Error()})
				continue
			}
			logger.Warn("Property item fields are malformed, keeping id only", port.Fields{"index": i, "error": err.Error()})
			dto = propertyDTO{ID: idOnly.ID}
		}
		result = append(result, dto.toDomain())
	}
	return result
}

// buildPage: raw - элементы как их прислал upstream, по ним считается Received;
// без total от upstream итог равен числу присланных элементов
func buildPage(raw []json.RawMessage, data []domain.Property, total, curPage, perPageResp, totalPages *int, page, perPage int) *domain.PropertiesPage {
	result := &domain.PropertiesPage{
		Data:     data,
		Total:    len(raw),
		Page:     page,
		PerPage:  perPage,
		Received: len(raw),
	}
	if total != nil {
		result.Total = *total
	}
	if curPage != nil {
		result.Page = *curPage
	}
	if perPageResp != nil {
		result.PerPage = *perPageResp
	}
	switch {
	case totalPages != nil:
		result.TotalPages = *totalPages
	case result.PerPage > 0:
		result.TotalPages = (result.Total + result.PerPage - 1) / result.PerPage
	}
	return result
}

func emptyPage(page, perPage int) *domain.PropertiesPage {
	return &domain.PropertiesPage{Data: []domain.Property{}, Page: page, PerPage: perPage}
}

func firstInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func intPtr(v int) *int { return &v }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s...", s[:n])
}
