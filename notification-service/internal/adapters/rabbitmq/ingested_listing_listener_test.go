package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/pkg/logging"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type capturingProcessor struct {
	listings []domain.Listing
	err      error
}

func (p *capturingProcessor) Execute(ctx context.Context, listing domain.Listing) error {
	if p.err != nil {
		return p.err
	}
	p.listings = append(p.listings, listing)
	return nil
}

func validListingEvent() ListingIngestedEvent {
	price := 180000.0
	rooms := 1
	return ListingIngestedEvent{
		ListingID:   uuid.New().String(),
		Source:      "krisha",
		ExternalID:  "12345",
		Change:      "new",
		URL:         "https://krisha.kz/a/show/12345",
		Price:       &price,
		Rooms:       &rooms,
		City:        "Алматы",
		RentalType:  "full_apartment",
		Enrichment:  &enrichmentDTO{Summary: "1-комнатная в центре"},
		FirstSeenAt: time.Now().UTC(),
	}
}

func TestHandleDeliveryMapsEvent(t *testing.T) {
	processor := &capturingProcessor{}
	listener := &IngestedListingListener{processor: processor, logger: logging.NewNoopLogger()}

	event := validListingEvent()
	body, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if err := listener.handleDelivery(amqp.Delivery{Body: body}); err != nil {
		t.Fatalf("handleDelivery: %v", err)
	}
	if len(processor.listings) != 1 {
		t.Fatalf("got %d processed listings, want 1", len(processor.listings))
	}

	got := processor.listings[0]
	if got.ID.String() != event.ListingID {
		t.Errorf("got listing id %s, want %s", got.ID, event.ListingID)
	}
	if got.Summary != "1-комнатная в центре" {
		t.Errorf("got summary %q, enrichment was not mapped", got.Summary)
	}
	if got.Change != "new" {
		t.Errorf("got change %q, want new", got.Change)
	}
}

func TestHandleDeliveryAcksMalformedEvent(t *testing.T) {
	processor := &capturingProcessor{}
	listener := &IngestedListingListener{processor: processor, logger: logging.NewNoopLogger()}

	// нет обязательных полей — схема отбрасывает, сообщение подтверждаем
	if err := listener.handleDelivery(amqp.Delivery{Body: []byte(`{"source":"krisha"}`)}); err != nil {
		t.Fatalf("malformed event must be acked, got error: %v", err)
	}
	if len(processor.listings) != 0 {
		t.Error("malformed event must not reach the processor")
	}
}

func TestHandleDeliveryPropagatesProcessorError(t *testing.T) {
	processor := &capturingProcessor{err: context.DeadlineExceeded}
	listener := &IngestedListingListener{processor: processor, logger: logging.NewNoopLogger()}

	body, err := json.Marshal(validListingEvent())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	// транзиентная ошибка уходит в ретрай
	if err := listener.handleDelivery(amqp.Delivery{Body: body}); err == nil {
		t.Error("expected processor error to propagate for retry")
	}
}
