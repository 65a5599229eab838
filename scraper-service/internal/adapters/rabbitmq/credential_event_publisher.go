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

// CredentialEventPublisher публикует события credential.requested
type CredentialEventPublisher struct {
	publisher *rabbitmq_producer.Publisher
}

func NewCredentialEventPublisher(publisher *rabbitmq_producer.Publisher) (*CredentialEventPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	return &CredentialEventPublisher{publisher: publisher}, nil
}

func (p *CredentialEventPublisher) PublishCodeNeeded(ctx context.Context, req domain.CredentialRequest) error {
	event := CredentialRequestedEvent{
		RequestID: req.RequestID.String(),
		SessionID: req.SessionID,
		Hint:      req.Hint,
		IssuedAt:  req.IssuedAt,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal credential request event: %w", err)
	}

	if err = schemas.Validate(schemas.CredentialRequestedEventKey, body); err != nil {
		return fmt.Errorf("outgoing credential request event is invalid: %w", err)
	}

	err = p.publisher.Publish(ctx, constants.CredentialRequestedRoutingKey, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Type:         schemas.CredentialRequestedEventKey,
	})
	if err != nil {
		return fmt.Errorf("failed to publish credential request event: %w", err)
	}
	return nil
}
