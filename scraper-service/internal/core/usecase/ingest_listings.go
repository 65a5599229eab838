package usecase

import (
	"context"
	"fmt"

	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"
)

// IngestListingsUseCase прогоняет порцию собранных объявлений через
// обогащение и дедупликацию. Новые и измененные объявления публикуются
// в брокер, идентичные молча отбрасываются.
type IngestListingsUseCase struct {
	storage    port.ListingStoragePort
	events     port.ListingEventsPort
	enrichment port.EnrichmentPort
}

func NewIngestListingsUseCase(
	storage port.ListingStoragePort,
	events port.ListingEventsPort,
	enrichment port.EnrichmentPort,
) *IngestListingsUseCase {
	return &IngestListingsUseCase{
		storage:    storage,
		events:     events,
		enrichment: enrichment,
	}
}

// Execute обрабатывает объявления по одному: ошибка обогащения или
// сохранения одного объявления не прерывает обработку остальных.
func (uc *IngestListingsUseCase) Execute(ctx context.Context, listings []domain.Listing) domain.IngestStats {
	logger := logging.LoggerFromContext(ctx)

	stats := domain.IngestStats{}
	for i := range listings {
		listing := &listings[i]

		result, err := uc.ingestOne(ctx, listing)
		if err != nil {
			stats.Failed++
			logger.Error("Failed to ingest listing", err, logging.Fields{
				"source":      listing.Source,
				"external_id": listing.ExternalID,
			})
			continue
		}

		switch result {
		case domain.IngestNew:
			stats.New++
		case domain.IngestUpdated:
			stats.Updated++
		case domain.IngestUnchanged:
			stats.Unchanged++
		}
	}

	logger.Info("Ingest batch finished", logging.Fields{
		"total":     len(listings),
		"new":       stats.New,
		"updated":   stats.Updated,
		"unchanged": stats.Unchanged,
		"failed":    stats.Failed,
	})

	return stats
}

func (uc *IngestListingsUseCase) ingestOne(ctx context.Context, listing *domain.Listing) (domain.IngestResult, error) {
	logger := logging.LoggerFromContext(ctx)

	// обогащение не критично: при сбое объявление сохраняется без него
	if uc.enrichment != nil && listing.Enrichment == nil && listing.RawText != "" {
		enrichment, err := uc.enrichment.Analyze(ctx, listing.RawText)
		if err != nil {
			logger.Warn("Enrichment failed, ingesting without it", logging.Fields{
				"source":      listing.Source,
				"external_id": listing.ExternalID,
				"error":       err.Error(),
			})
		} else {
			listing.Enrichment = enrichment
			applyEnrichment(listing, enrichment)
		}
	}

	result, err := uc.storage.Ingest(ctx, listing)
	if err != nil {
		return result, fmt.Errorf("storage ingest: %w", err)
	}

	if result == domain.IngestUnchanged {
		return result, nil
	}

	if err = uc.events.PublishIngested(ctx, *listing, result); err != nil {
		// объявление уже в базе, поэтому факт сохранения не теряется;
		// событие уйдет при следующем изменении
		return result, fmt.Errorf("publish ingested event: %w", err)
	}

	return result, nil
}

// applyEnrichment заполняет структурированные поля объявления из результата
// AI-анализа, не перетирая то, что источник отдал сам
func applyEnrichment(listing *domain.Listing, enrichment *domain.EnrichmentResult) {
	if listing.Price == nil && enrichment.Price != nil {
		listing.Price = enrichment.Price
	}
	if listing.Rooms == nil && enrichment.Rooms != nil {
		listing.Rooms = enrichment.Rooms
	}
	if listing.City == "" {
		listing.City = enrichment.City
	}
	if listing.District == "" {
		listing.District = enrichment.District
	}
	if listing.Square == nil && enrichment.Square != nil {
		listing.Square = enrichment.Square
	}
	if listing.RentalType == "" {
		listing.RentalType = enrichment.RentalType
	}
}
