package contextkeys

import (
	"context"
	"listing-site/internal/core/port"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fieldsLogger struct {
	port.LoggerPort
	fields port.Fields
}

func (l fieldsLogger) WithFields(fields port.Fields) port.LoggerPort {
	return fieldsLogger{LoggerPort: l.LoggerPort, fields: l.fields.Merge(fields)}
}

func TestLoggerFromContext_DefaultsToNop(t *testing.T) {
	logger := LoggerFromContext(context.Background())
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() {
		logger.WithFields(port.Fields{"session_id": "s-1"}).Error("Failed to read client storage", nil, nil)
	})
}

func TestContextWithLoggerFields(t *testing.T) {
	base := fieldsLogger{LoggerPort: port.NopLogger(), fields: port.Fields{"trace_id": "t-1"}}
	ctx := ContextWithLogger(context.Background(), base)

	ctx = ContextWithLoggerFields(ctx, port.Fields{"session_id": "s-1"})

	got, ok := LoggerFromContext(ctx).(fieldsLogger)
	assert.True(t, ok)
	assert.Equal(t, port.Fields{"trace_id": "t-1", "session_id": "s-1"}, got.fields)
}
