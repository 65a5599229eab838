package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"
)

type fakeCollector struct {
	name     string
	interval time.Duration
	calls    atomic.Int64
	collect  func() ([]domain.Listing, error)
}

func (c *fakeCollector) Name() string            { return c.name }
func (c *fakeCollector) Interval() time.Duration { return c.interval }

func (c *fakeCollector) Collect(ctx context.Context) ([]domain.Listing, error) {
	c.calls.Add(1)
	return c.collect()
}

func TestRunCollectorsIsolatesFailingCollector(t *testing.T) {
	healthy := &fakeCollector{
		name:     "healthy",
		interval: 5 * time.Millisecond,
		collect: func() ([]domain.Listing, error) {
			return []domain.Listing{makeListing("h1")}, nil
		},
	}
	broken := &fakeCollector{
		name:     "broken",
		interval: 5 * time.Millisecond,
		collect: func() ([]domain.Listing, error) {
			return nil, domain.ErrSourceUnavailable
		},
	}

	storage := &fakeListingStorage{}
	events := &fakeListingEvents{}
	uc := NewRunCollectorsUseCase(
		[]port.CollectorPort{healthy, broken},
		NewIngestListingsUseCase(storage, events, nil),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	uc.Execute(ctx)

	if healthy.calls.Load() < 2 {
		t.Errorf("got %d healthy runs, want at least 2: broken collector must not block the schedule", healthy.calls.Load())
	}
	if broken.calls.Load() == 0 {
		t.Error("broken collector was never attempted")
	}
}

func TestRunCollectorsRecoversFromPanic(t *testing.T) {
	var after atomic.Int64
	panicky := &fakeCollector{
		name:     "panicky",
		interval: 5 * time.Millisecond,
		collect: func() ([]domain.Listing, error) {
			if after.Add(1) == 1 {
				panic("unexpected payload shape")
			}
			return nil, nil
		},
	}

	uc := NewRunCollectorsUseCase(
		[]port.CollectorPort{panicky},
		NewIngestListingsUseCase(&fakeListingStorage{}, &fakeListingEvents{}, nil),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	uc.Execute(ctx)

	if after.Load() < 2 {
		t.Errorf("got %d runs, want at least 2: panic must not kill the collector loop", after.Load())
	}
}

func TestCollectOnceWrapsError(t *testing.T) {
	broken := &fakeCollector{
		name:     "broken",
		interval: time.Minute,
		collect: func() ([]domain.Listing, error) {
			return nil, domain.ErrSourceUnavailable
		},
	}
	uc := NewRunCollectorsUseCase(nil, NewIngestListingsUseCase(&fakeListingStorage{}, &fakeListingEvents{}, nil))

	err := uc.collectOnce(context.Background(), broken)
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Errorf("got error %v, want wrapped ErrSourceUnavailable", err)
	}
}
