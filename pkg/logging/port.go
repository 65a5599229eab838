package logging

// Fields — это тип для передачи структурированных данных в лог
type Fields map[string]interface{}

// LoggerPort определяет контракт для системы логирования.
// Все сервисы работают только с этим интерфейсом, конкретные реализации
// (slog, fluent-bit, композит) подключаются в composition root.
type LoggerPort interface {
	Info(msg string, fields Fields)

	Warn(msg string, fields Fields)

	Error(msg string, err error, fields Fields)

	Debug(msg string, fields Fields)

	// WithFields создает новый экземпляр логгера с уже добавленными полями
	WithFields(fields Fields) LoggerPort
}

// noopLogger - это реализация LoggerPort, которая ничего не делает
type noopLogger struct{}

func (n *noopLogger) Info(msg string, fields Fields)             {}
func (n *noopLogger) Warn(msg string, fields Fields)             {}
func (n *noopLogger) Error(msg string, err error, fields Fields) {}
func (n *noopLogger) Debug(msg string, fields Fields)            {}
func (n *noopLogger) WithFields(fields Fields) LoggerPort        { return n }

// NewNoopLogger возвращает логгер-заглушку (для тестов и значений по умолчанию)
func NewNoopLogger() LoggerPort {
	return &noopLogger{}
}
