package contextkeys

import (
	"context"

	"github.com/google/uuid"
)

type sessionIDKeyType struct{}
type authTokenKeyType struct{}

var (
	sessionIDKey = sessionIDKeyType{}
	authTokenKey = authTokenKeyType{}
)

// ContextWithSessionID помещает идентификатор браузерной сессии в контекст
func ContextWithSessionID(ctx context.Context, sessionID uuid.UUID) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext возвращает uuid.Nil, если сессии в контексте нет
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(sessionIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// ContextWithAuthToken кладет bearer-токен, который клиент API прикрепит к исходящим запросам
func ContextWithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authTokenKey, token)
}

func AuthTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(authTokenKey).(string); ok {
		return token
	}
	return ""
}
