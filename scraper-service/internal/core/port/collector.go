package port

import (
	"context"
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// CollectorPort — один источник объявлений (сайт недвижимости либо
// чат-сообщество), запускаемый по собственному расписанию.
// Collect возвращает свежую порцию объявлений; ошибка изолируется
// оркестратором и не влияет на расписание других коллекторов.
type CollectorPort interface {
	Name() string
	Interval() time.Duration
	Collect(ctx context.Context) ([]domain.Listing, error)
}
