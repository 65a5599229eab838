package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// ListingEventsPort публикует событие listing.ingested для стадии
// матчинга/доставки. Вызывается только для результатов new и updated.
type ListingEventsPort interface {
	PublishIngested(ctx context.Context, listing domain.Listing, change domain.IngestResult) error
}
