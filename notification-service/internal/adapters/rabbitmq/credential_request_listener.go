package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/open-ssl/krisha/notification-service/internal/constants"
	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_common"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_consumer"
	"github.com/open-ssl/krisha/schemas"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// PromptForwarder показывает запрос кода администратору
type PromptForwarder interface {
	Execute(ctx context.Context, prompt domain.CredentialPrompt) error
}

// CredentialRequestListener слушает очередь credential_requests и
// пересылает запросы кодов администратору в Telegram
type CredentialRequestListener struct {
	consumer  rabbitmq_consumer.Consumer
	forwarder PromptForwarder
	logger    logging.LoggerPort
}

func NewCredentialRequestListener(
	rabbitURL string,
	forwarder PromptForwarder,
	connManager *rabbitmq_common.ConnectionManager,
	logger logging.LoggerPort,
) (*CredentialRequestListener, error) {
	if forwarder == nil {
		return nil, fmt.Errorf("prompt forwarder cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	listener := &CredentialRequestListener{forwarder: forwarder, logger: logger}

	cfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: rabbitURL},
		QueueName:              constants.CredentialRequestsQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.RentEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.RentEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.CredentialRequestedRoutingKey,
		PrefetchCount:          4,
		ConsumerTag:            "credential-request-listener",

		EnableRetryMechanism: true,
		RetryExchange:        constants.CredentialRequestsRetryExchange,
		RetryQueue:           constants.CredentialRequestsRetryQueue,
		RetryTTL:             constants.CredentialRequestsRetryTTL,
		FinalDLXExchange:     constants.CredentialRequestsFinalDLX,
		FinalDLQ:             constants.CredentialRequestsFinalDLQ,
		FinalDLQRoutingKey:   constants.CredentialRequestedRoutingKey,
		MaxRetries:           constants.CredentialRequestsMaxRetries,

		Logger: logging.NewRabbitLoggerBridge(logger),
	}

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, listener.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential request consumer: %w", err)
	}
	listener.consumer = consumer

	return listener, nil
}

func (l *CredentialRequestListener) handleDelivery(delivery amqp.Delivery) error {
	ctx := logging.ContextWithLogger(context.Background(), l.logger)

	if err := schemas.Validate(schemas.CredentialRequestedEventKey, delivery.Body); err != nil {
		l.logger.Error("Dropping malformed credential request", err, logging.Fields{
			"body": string(delivery.Body),
		})
		return nil
	}

	var event CredentialRequestedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		l.logger.Error("Dropping unparsable credential request", err, nil)
		return nil
	}

	requestID, err := uuid.Parse(event.RequestID)
	if err != nil {
		l.logger.Error("Dropping credential request with bad request_id", err, logging.Fields{
			"request_id": event.RequestID,
		})
		return nil
	}

	return l.forwarder.Execute(ctx, domain.CredentialPrompt{
		RequestID: requestID,
		SessionID: event.SessionID,
		Hint:      event.Hint,
		IssuedAt:  event.IssuedAt,
	})
}

// Start реализует port.EventListenerPort
func (l *CredentialRequestListener) Start(ctx context.Context) error {
	return l.consumer.StartConsuming(ctx)
}

func (l *CredentialRequestListener) Close() error {
	return l.consumer.Close()
}
