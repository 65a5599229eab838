package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// ListingStoragePort — durable-хранилище всех когда-либо виденных объявлений.
// Ingest выполняет upsert по ключу (source, external_id): новая запись дает
// IngestNew, изменившийся content_hash — IngestUpdated, идентичное содержимое
// — IngestUnchanged без единой записи в БД. Заполняет ID, ContentHash и
// FirstSeenAt в переданном объявлении.
type ListingStoragePort interface {
	Ingest(ctx context.Context, listing *domain.Listing) (domain.IngestResult, error)
}
