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

// ListingProcessor матчит объявление по фильтрам и рассылает уведомления
type ListingProcessor interface {
	Execute(ctx context.Context, listing domain.Listing) error
}

// IngestedListingListener слушает очередь ingested_listings. Сломанные
// по схеме сообщения подтверждаются сразу, транзиентные ошибки доставки
// уходят в цикл ретрая.
type IngestedListingListener struct {
	consumer  rabbitmq_consumer.Consumer
	processor ListingProcessor
	logger    logging.LoggerPort
}

func NewIngestedListingListener(
	rabbitURL string,
	processor ListingProcessor,
	connManager *rabbitmq_common.ConnectionManager,
	logger logging.LoggerPort,
) (*IngestedListingListener, error) {
	if processor == nil {
		return nil, fmt.Errorf("listing processor cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	listener := &IngestedListingListener{processor: processor, logger: logger}

	cfg := rabbitmq_consumer.ConsumerConfig{
		Config:                 rabbitmq_common.Config{URL: rabbitURL},
		QueueName:              constants.IngestedListingsQueue,
		DeclareQueue:           true,
		DurableQueue:           true,
		ExchangeNameForBind:    constants.RentEventsExchange,
		DeclareExchangeForBind: true,
		ExchangeTypeForBind:    constants.RentEventsExchangeType,
		DurableExchangeForBind: true,
		RoutingKeyForBind:      constants.ListingIngestedRoutingKey,
		PrefetchCount:          16,
		ConsumerTag:            "ingested-listing-listener",

		EnableRetryMechanism: true,
		RetryExchange:        constants.IngestedListingsRetryExchange,
		RetryQueue:           constants.IngestedListingsRetryQueue,
		RetryTTL:             constants.IngestedListingsRetryTTL,
		FinalDLXExchange:     constants.IngestedListingsFinalDLX,
		FinalDLQ:             constants.IngestedListingsFinalDLQ,
		FinalDLQRoutingKey:   constants.ListingIngestedRoutingKey,
		MaxRetries:           constants.IngestedListingsMaxRetries,

		Logger: logging.NewRabbitLoggerBridge(logger),
	}

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, listener.handleDelivery, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingested listing consumer: %w", err)
	}
	listener.consumer = consumer

	return listener, nil
}

func (l *IngestedListingListener) handleDelivery(delivery amqp.Delivery) error {
	ctx := logging.ContextWithLogger(context.Background(), l.logger)

	if err := schemas.Validate(schemas.ListingIngestedEventKey, delivery.Body); err != nil {
		l.logger.Error("Dropping malformed listing event", err, logging.Fields{
			"body": string(delivery.Body),
		})
		return nil
	}

	var event ListingIngestedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		l.logger.Error("Dropping unparsable listing event", err, nil)
		return nil
	}

	listing, err := mapEventToListing(event)
	if err != nil {
		l.logger.Error("Dropping listing event with bad payload", err, logging.Fields{
			"listing_id": event.ListingID,
		})
		return nil
	}

	return l.processor.Execute(ctx, listing)
}

func mapEventToListing(event ListingIngestedEvent) (domain.Listing, error) {
	id, err := uuid.Parse(event.ListingID)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("bad listing_id %q: %w", event.ListingID, err)
	}

	listing := domain.Listing{
		ID:          id,
		Source:      event.Source,
		ExternalID:  event.ExternalID,
		Change:      event.Change,
		URL:         event.URL,
		Price:       event.Price,
		Rooms:       event.Rooms,
		City:        event.City,
		District:    event.District,
		Street:      event.Street,
		Square:      event.Square,
		RentalType:  event.RentalType,
		RawText:     event.RawText,
		FirstSeenAt: event.FirstSeenAt,
	}
	if event.Enrichment != nil {
		listing.Summary = event.Enrichment.Summary
	}
	return listing, nil
}

// Start реализует port.EventListenerPort
func (l *IngestedListingListener) Start(ctx context.Context) error {
	return l.consumer.StartConsuming(ctx)
}

func (l *IngestedListingListener) Close() error {
	return l.consumer.Close()
}
