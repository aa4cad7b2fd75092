package port

// Fields - структурированные поля записи лога
type Fields map[string]interface{}

// Merge возвращает новую карту: поля f, поверх которых записаны extra.
// Исходные карты не изменяются
func (f Fields) Merge(extra Fields) Fields {
	merged := make(Fields, len(f)+len(extra))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// LoggerPort - логгер, которым пользуются ядро и адаптеры.
// Реализации: slog (консоль), fluentd и их комбинация
type LoggerPort interface {
	Debug(msg string, fields Fields)
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)

	// WithFields возвращает дочерний логгер; родитель не меняется
	WithFields(fields Fields) LoggerPort
}

// NopLogger отбрасывает все записи
func NopLogger() LoggerPort { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, Fields)           {}
func (nopLogger) Info(string, Fields)            {}
func (nopLogger) Warn(string, Fields)            {}
func (nopLogger) Error(string, error, Fields)    {}
func (n nopLogger) WithFields(Fields) LoggerPort { return n }
