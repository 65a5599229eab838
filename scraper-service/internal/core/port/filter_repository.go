package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/google/uuid"
)

// FilterRepositoryPort — хранилище пользовательских фильтров поиска
type FilterRepositoryPort interface {
	Create(ctx context.Context, filter domain.UserFilter) (domain.UserFilter, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.UserFilter, error)
	ListActive(ctx context.Context) ([]domain.UserFilter, error)
	// Deactivate помечает фильтр неактивным (is_active=false), не удаляя строку
	Deactivate(ctx context.Context, filterID uuid.UUID) error
}
