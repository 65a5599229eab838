package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"
)

const maxCollectorBackoff = 30 * time.Minute

// RunCollectorsUseCase гоняет каждый коллектор в отдельной горутине по его
// собственному интервалу. Сбой или паника одного коллектора изолируются:
// его интервал удваивается до первого успешного прохода, остальные
// коллекторы продолжают работать по расписанию.
type RunCollectorsUseCase struct {
	collectors []port.CollectorPort
	ingest     *IngestListingsUseCase
}

func NewRunCollectorsUseCase(collectors []port.CollectorPort, ingest *IngestListingsUseCase) *RunCollectorsUseCase {
	return &RunCollectorsUseCase{
		collectors: collectors,
		ingest:     ingest,
	}
}

// Execute блокируется до отмены контекста
func (uc *RunCollectorsUseCase) Execute(ctx context.Context) {
	logger := logging.LoggerFromContext(ctx)
	logger.Info("Starting collectors", logging.Fields{
		"count": len(uc.collectors),
	})

	var wg sync.WaitGroup
	for _, collector := range uc.collectors {
		wg.Add(1)
		go func(collector port.CollectorPort) {
			defer wg.Done()
			uc.runCollectorLoop(ctx, collector)
		}(collector)
	}
	wg.Wait()
}

func (uc *RunCollectorsUseCase) runCollectorLoop(ctx context.Context, collector port.CollectorPort) {
	logger := logging.LoggerFromContext(ctx)

	baseInterval := collector.Interval()
	interval := baseInterval

	// первый проход сразу после старта, дальше по тикеру
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Collector stopped", logging.Fields{
				"collector": collector.Name(),
			})
			return
		case <-timer.C:
		}

		if err := uc.collectOnce(ctx, collector); err != nil {
			interval = minDuration(interval*2, maxCollectorBackoff)
			logger.Error("Collector run failed, backing off", err, logging.Fields{
				"collector":     collector.Name(),
				"next_interval": interval.String(),
			})
		} else {
			interval = baseInterval
		}

		timer.Reset(interval)
	}
}

func (uc *RunCollectorsUseCase) collectOnce(ctx context.Context, collector port.CollectorPort) (err error) {
	logger := logging.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("collector %s panicked: %v", collector.Name(), r)
		}
	}()

	started := time.Now()
	listings, err := collector.Collect(ctx)
	if err != nil {
		return fmt.Errorf("collect from %s: %w", collector.Name(), err)
	}

	stats := uc.ingest.Execute(ctx, listings)
	logger.Info("Collector run finished", logging.Fields{
		"collector": collector.Name(),
		"collected": len(listings),
		"new":       stats.New,
		"updated":   stats.Updated,
		"duration":  time.Since(started).String(),
	})
	return nil
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
