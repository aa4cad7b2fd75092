package rabbitmq

import (
	"fmt"
	"log/slog"

	"listing-site/internal/core/port"
	"listing-site/pkg/rabbitmq/rabbitmq_common"
)

// badKey - ключ для значения без пары, как у slog
const badKey = "!BADKEY"

// PkgLoggerBridge отдает логи connection manager и producer в LoggerPort сайта
type PkgLoggerBridge struct {
	target port.LoggerPort
}

var _ rabbitmq_common.Logger = (*PkgLoggerBridge)(nil)

func NewPkgLoggerBridge(logger port.LoggerPort) *PkgLoggerBridge {
	if logger == nil {
		logger = port.NopLogger()
	}
	return &PkgLoggerBridge{target: logger}
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.log(slog.LevelDebug, nil, msg, keysAndValues)
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.log(slog.LevelInfo, nil, msg, keysAndValues)
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.log(slog.LevelWarn, nil, msg, keysAndValues)
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.log(slog.LevelError, err, msg, keysAndValues)
}

func (b *PkgLoggerBridge) log(level slog.Level, err error, msg string, keysAndValues []interface{}) {
	fields := pairsToFields(keysAndValues)
	switch {
	case level >= slog.LevelError:
		b.target.Error(msg, err, fields)
	case level >= slog.LevelWarn:
		b.target.Warn(msg, fields)
	case level >= slog.LevelInfo:
		b.target.Info(msg, fields)
	default:
		b.target.Debug(msg, fields)
	}
}

// pairsToFields разбирает key/value пары. Нестроковый ключ приводится к строке,
// значение без пары попадает под badKey
func pairsToFields(keysAndValues []interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 == len(keysAndValues) {
			fields[badKey] = keysAndValues[i]
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}
