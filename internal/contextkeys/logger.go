package contextkeys

import (
	"context"
	"listing-site/internal/core/port"
)

type loggerKeyType struct{}

var loggerKey = loggerKeyType{}

// ContextWithLogger кладет логгер запроса в контекст
func ContextWithLogger(ctx context.Context, logger port.LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext достает логгер запроса. Без логгера в контексте
// (фоновые задачи, тесты) записи молча отбрасываются
func LoggerFromContext(ctx context.Context) port.LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(port.LoggerPort); ok && logger != nil {
		return logger
	}
	return port.NopLogger()
}

// ContextWithLoggerFields дополняет логгер из контекста полями и кладет результат обратно
func ContextWithLoggerFields(ctx context.Context, fields port.Fields) context.Context {
	return ContextWithLogger(ctx, LoggerFromContext(ctx).WithFields(fields))
}
