package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_common"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/open-ssl/krisha/schemas"
	"github.com/open-ssl/krisha/scraper-service/internal/constants"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CredentialResolver — входящий порт, который будит ожидающий коллектор
type CredentialResolver interface {
	Resolve(ctx context.Context, requestID uuid.UUID, code string) error
}

// CredentialAnswerListener слушает очередь credential_answers и передает
// коды подтверждения в CredentialRelayUseCase. Невалидные по схеме
// сообщения подтверждаются и логируются: повторная доставка им не поможет.
type CredentialAnswerListener struct {
	consumer rabbitmq_consumer.Consumer
	resolver CredentialResolver
	logger   logging.LoggerPort
}

func NewCredentialAnswerListener(
	rabbitURL string,
	resolver CredentialResolver,
	connManager *rabbitmq_common.ConnectionManager,
	logger logging.LoggerPort,
) (*CredentialAnswerListener, error) {
	if resolver == nil {
		return nil, fmt.Errorf("credential resolver cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	listener := &CredentialAnswerListener{resolver: resolver, logger: logger}

	cfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: rabbitURL},
		QueueName:              constants.CredentialAnswersQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.RentEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.RentEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.CredentialAnsweredRoutingKey,
		PrefetchCount:          8,
		ConsumerTag:            "credential-answer-listener",

		EnableRetryMechanism: true,
		RetryExchange:        constants.CredentialAnswersRetryExchange,
		RetryQueue:           constants.CredentialAnswersRetryQueue,
		RetryTTL:             constants.CredentialAnswersRetryTTL,
		FinalDLXExchange:     constants.CredentialAnswersFinalDLX,
		FinalDLQ:             constants.CredentialAnswersFinalDLQ,
		FinalDLQRoutingKey:   constants.CredentialAnsweredRoutingKey,
		MaxRetries:           constants.CredentialAnswersMaxRetries,

		Logger: logging.NewRabbitLoggerBridge(logger),
	}

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, listener.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential answer consumer: %w", err)
	}
	listener.consumer = consumer

	return listener, nil
}

func (l *CredentialAnswerListener) handleDelivery(delivery amqp.Delivery) error {
	ctx := logging.ContextWithLogger(context.Background(), l.logger)

	if err := schemas.Validate(schemas.CredentialAnsweredEventKey, delivery.Body); err != nil {
		// Сообщение сломано навсегда: подтверждаем, чтобы не гонять по кругу
		l.logger.Error("Dropping malformed credential answer", err, logging.Fields{
			"body": string(delivery.Body),
		})
		return nil
	}

	var event CredentialAnsweredEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		l.logger.Error("Dropping unparsable credential answer", err, nil)
		return nil
	}

	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		l.logger.Error("Dropping credential answer with bad request_id", err, logging.Fields{
			"request_id": event.RequestID,
		})
		return nil
	}

	// Ошибка Resolve (например, отвалилась БД) — транзиентная, сообщение
	// уйдет в цикл ретрая
	return l.resolver.Resolve(ctx, requestID, event.Code)
}

// Start реализует port.EventListenerPort
func (l *CredentialAnswerListener) Start(ctx context.Context) error {
	return l.consumer.StartConsuming(ctx)
}

func (l *CredentialAnswerListener) Close() error {
	return l.consumer.Close()
}
