package port

import (
	"context"

	"github.com/google/uuid"
)

// Ключи, под которыми браузерная версия сайта хранила состояние
const (
	StorageKeyCurrentUser     = "currentUser"
	StorageKeyAuthToken       = "auth_token"
	StorageKeyPropertyFilters = "propertyFilters"
	StorageKeyScrollPosition  = "listingsScrollPosition"
)

// ClientStoragePort - key/value хранилище, привязанное к сессии браузера.
// Долговременное (аналог localStorage) и сессионное (аналог sessionStorage) реализуют один контракт.
type ClientStoragePort interface {
	Get(ctx context.Context, sessionID uuid.UUID, key string) (string, bool, error)
	Set(ctx context.Context, sessionID uuid.UUID, key, value string) error
	Delete(ctx context.Context, sessionID uuid.UUID, keys ...string) error
}
