package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/constants"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_producer"
	"github.com/open-ssl/krisha/schemas"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CredentialAnswerPublisher публикует ответ администратора с кодом
// обратно в rent_events для scraper-service
type CredentialAnswerPublisher struct {
	publisher *rabbitmq_producer.Publisher
}

func NewCredentialAnswerPublisher(publisher *rabbitmq_producer.Publisher) (*CredentialAnswerPublisher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher cannot be nil")
	}
	return &CredentialAnswerPublisher{publisher: publisher}, nil
}

func (p *CredentialAnswerPublisher) PublishAnswer(ctx context.Context, requestID uuid.UUID, code string) error {
	event := CredentialAnsweredEvent{
		RequestID: requestID.String(),
		Code:      code,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal credential answer event: %w", err)
	}

	if err = schemas.Validate(schemas.CredentialAnsweredEventKey, body); err != nil {
		return fmt.Errorf("outgoing credential answer event is invalid: %w", err)
	}

	err = p.publisher.Publish(ctx, constants.CredentialAnsweredRoutingKey, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Timestamp:    time.Now(),
		DeliveryMode: amqp.Persistent,
		Type:         schemas.CredentialAnsweredEventKey,
	})
	if err != nil {
		return fmt.Errorf("failed to publish credential answer event: %w", err)
	}
	return nil
}
