package logging

import (
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_common"
)

// RabbitLoggerBridge адаптирует LoggerPort к интерфейсу логгера pkg/rabbitmq.
type RabbitLoggerBridge struct {
	internalLogger LoggerPort
}

// NewRabbitLoggerBridge создает новый мост.
func NewRabbitLoggerBridge(logger LoggerPort) rabbitmq_common.Logger {
	return &RabbitLoggerBridge{internalLogger: logger}
}

func (b *RabbitLoggerBridge) toFields(keysAndValues ...interface{}) Fields {
	fields := make(Fields, len(keysAndValues)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok || i+1 >= len(keysAndValues) {
			continue // Пропускаем некорректные пары
		}
		fields[key] = keysAndValues[i+1]
	}
	return fields
}

func (b *RabbitLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, b.toFields(keysAndValues...))
}

func (b *RabbitLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Info(msg, b.toFields(keysAndValues...))
}

func (b *RabbitLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Warn(msg, b.toFields(keysAndValues...))
}

func (b *RabbitLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, err, b.toFields(keysAndValues...))
}
