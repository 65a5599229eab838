package filtercache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

type countingSource struct {
	calls   int
	filters []domain.UserFilter
	err     error
}

func (s *countingSource) ActiveFilters(ctx context.Context) ([]domain.UserFilter, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.filters, nil
}

func someFilters() []domain.UserFilter {
	return []domain.UserFilter{{ID: uuid.New(), UserID: 1, City: "Алматы"}}
}

func TestCacheServesFromCacheWithinTTL(t *testing.T) {
	source := &countingSource{filters: someFilters()}
	cache, err := NewCache(source, time.Minute)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	for i := 0; i < 5; i++ {
		filters, err := cache.ActiveFilters(context.Background())
		if err != nil {
			t.Fatalf("ActiveFilters: %v", err)
		}
		if len(filters) != 1 {
			t.Fatalf("got %d filters, want 1", len(filters))
		}
	}
	if source.calls != 1 {
		t.Errorf("got %d source calls, want 1", source.calls)
	}
}

func TestCacheRefreshesAfterTTL(t *testing.T) {
	source := &countingSource{filters: someFilters()}
	cache, err := NewCache(source, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, err := cache.ActiveFilters(context.Background()); err != nil {
		t.Fatalf("ActiveFilters: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := cache.ActiveFilters(context.Background()); err != nil {
		t.Fatalf("ActiveFilters after TTL: %v", err)
	}

	if source.calls != 2 {
		t.Errorf("got %d source calls, want 2", source.calls)
	}
}

func TestCacheServesStaleOnSourceFailure(t *testing.T) {
	source := &countingSource{filters: someFilters()}
	cache, err := NewCache(source, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, err := cache.ActiveFilters(context.Background()); err != nil {
		t.Fatalf("ActiveFilters: %v", err)
	}

	source.err = errors.New("scraper-service is down")
	time.Sleep(20 * time.Millisecond)

	filters, err := cache.ActiveFilters(context.Background())
	if err != nil {
		t.Fatalf("expected stale filters, got error: %v", err)
	}
	if len(filters) != 1 {
		t.Errorf("got %d stale filters, want 1", len(filters))
	}
}

func TestCacheFailsWhenEmptyAndSourceDown(t *testing.T) {
	source := &countingSource{err: errors.New("scraper-service is down")}
	cache, err := NewCache(source, time.Minute)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if _, err := cache.ActiveFilters(context.Background()); err == nil {
		t.Error("expected error when cache is empty and source is down")
	}
}
