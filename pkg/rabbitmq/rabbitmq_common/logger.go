package rabbitmq_common

// Logger - минимальный логгер пакетов pkg/rabbitmq. Поля передаются
// парами key/value, как в slog: ("exchange", name, "attempt", 3)
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(err error, msg string, keysAndValues ...interface{})
}

// LoggerOrDiscard подставляет пустой логгер, если вызывающий его не передал
func LoggerOrDiscard(logger Logger) Logger {
	if logger == nil {
		return discard{}
	}
	return logger
}

type discard struct{}

func (discard) Debug(string, ...interface{})        {}
func (discard) Info(string, ...interface{})         {}
func (discard) Warn(string, ...interface{})         {}
func (discard) Error(error, string, ...interface{}) {}
