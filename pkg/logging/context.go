package logging

import "context"

// Типы-ключи для контекста, чтобы исключить коллизии с другими пакетами
type loggerKeyType struct{}
type traceIDKeyType struct{}

var (
	loggerKey  = loggerKeyType{}
	traceIDKey = traceIDKeyType{}
)

// ContextWithLogger помещает логгер в контекст
func ContextWithLogger(ctx context.Context, logger LoggerPort) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext извлекает логгер из контекста.
// Если логгера нет, возвращается no-op реализация — вызывающему коду
// не нужно проверять на nil.
func LoggerFromContext(ctx context.Context) LoggerPort {
	if logger, ok := ctx.Value(loggerKey).(LoggerPort); ok {
		return logger
	}
	return NewNoopLogger()
}

// ContextWithTraceID помещает сквозной идентификатор трассировки в контекст
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceIDFromContext извлекает идентификатор трассировки (пустая строка, если его нет)
func TraceIDFromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(traceIDKey).(string); ok {
		return traceID
	}
	return ""
}
