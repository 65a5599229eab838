package filtercache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/pkg/logging"
)

// Cache — read-through кэш активных фильтров поверх scraper-service.
// Каждое событие listing.ingested дергает ActiveFilters; без кэша
// каждое объявление превращалось бы в HTTP-запрос к scraper-service.
// Если источник недоступен, отдаем протухшую копию — лучше сматчить
// по чуть устаревшим фильтрам, чем потерять уведомление.
type Cache struct {
	source port.FilterSourcePort
	ttl    time.Duration

	mu        sync.Mutex
	filters   []domain.UserFilter
	fetchedAt time.Time
	hasData   bool
}

func NewCache(source port.FilterSourcePort, ttl time.Duration) (*Cache, error) {
	if source == nil {
		return nil, fmt.Errorf("filter cache: source cannot be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		source: source,
		ttl:    ttl,
	}, nil
}

func (c *Cache) ActiveFilters(ctx context.Context) ([]domain.UserFilter, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasData && time.Since(c.fetchedAt) < c.ttl {
		return c.filters, nil
	}

	filters, err := c.source.ActiveFilters(ctx)
	if err != nil {
		if c.hasData {
			logging.LoggerFromContext(ctx).Warn("Filter source unavailable, serving stale filters", logging.Fields{
				"age":   time.Since(c.fetchedAt).String(),
				"error": err.Error(),
			})
			return c.filters, nil
		}
		return nil, fmt.Errorf("filter cache: %w", err)
	}

	c.filters = filters
	c.fetchedAt = time.Now()
	c.hasData = true
	return c.filters, nil
}
