package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// EnrichmentPort — непрозрачный внешний AI-анализ свободного текста
// объявления. Сбой анализа не блокирует поглощение объявления.
type EnrichmentPort interface {
	Analyze(ctx context.Context, rawText string) (*domain.EnrichmentResult, error)
}
