package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_producer"
	"github.com/open-ssl/krisha/schemas"
	"github.com/open-ssl/krisha/scraper-service/internal/constants"
	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ListingEventPublisher публикует события listing.ingested в обменник
// rent_events. Исходящая нагрузка проверяется против схемы контракта:
// невалидное событие — это баг продюсера, и лучше упасть здесь, чем
// отравить очередь потребителя.
type ListingEventPublisher struct {
	publisher *rabbitmq_producer.Publisher
}

func NewListingEventPublisher(publisher *rabbitmq_producer.Publisher) (*ListingEventPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	return &ListingEventPublisher{publisher: publisher}, nil
}

func (p *ListingEventPublisher) PublishIngested(ctx context.Context, listing domain.Listing, change domain.IngestResult) error {
	event := newListingIngestedEvent(listing, change)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal listing event: %w", err)
	}

	if err = schemas.Validate(schemas.ListingIngestedEventKey, body); err != nil {
		return fmt.Errorf("outgoing listing event is invalid: %w", err)
	}

	err = p.publisher.Publish(ctx, constants.ListingIngestedRoutingKey, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Type:         schemas.ListingIngestedEventKey,
	})
	if err != nil {
		return fmt.Errorf("failed to publish listing event: %w", err)
	}
	return nil
}
