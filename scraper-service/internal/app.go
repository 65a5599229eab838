package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	fluentlogger "github.com/open-ssl/krisha/pkg/fluent_logger"
	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/pkg/postgres"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_common"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_producer"
	"github.com/open-ssl/krisha/scraper-service/internal/adapters/communityfeed"
	"github.com/open-ssl/krisha/scraper-service/internal/adapters/enrichment"
	"github.com/open-ssl/krisha/scraper-service/internal/adapters/krishafetcher"
	postgres_adapter "github.com/open-ssl/krisha/scraper-service/internal/adapters/postgres"
	rabbitmq_adapter "github.com/open-ssl/krisha/scraper-service/internal/adapters/rabbitmq"
	"github.com/open-ssl/krisha/scraper-service/internal/adapters/rest"
	"github.com/open-ssl/krisha/scraper-service/internal/configs"
	"github.com/open-ssl/krisha/scraper-service/internal/constants"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"
	"github.com/open-ssl/krisha/scraper-service/internal/core/usecase"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config *configs.AppConfig
	logger logging.LoggerPort
	dbPool *pgxpool.Pool

	apiServer     *rest.Server
	runCollectors *usecase.RunCollectorsUseCase

	credentialAnswersListener port.EventListenerPort
}

// NewApp создает новый экземпляр приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	logger, err := buildLogger(appConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	dbPool, err := postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Database.URL})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	logger.Info("Successfully connected to PostgreSQL pool", nil)

	// исходящие адаптеры
	listingRepo, err := postgres_adapter.NewListingRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create listing repository: %w", err)
	}
	filterRepo, err := postgres_adapter.NewUserFilterRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create filter repository: %w", err)
	}
	credentialRepo, err := postgres_adapter.NewCredentialRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create credential repository: %w", err)
	}

	rabbitLogger := logging.NewRabbitLoggerBridge(logger)
	connManager, err := rabbitmq_common.GetManager(appConfig.RabbitMQ.URL, rabbitLogger)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create RabbitMQ connection manager: %w", err)
	}

	eventsPublisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:                   rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:             constants.RentEventsExchange,
		ExchangeType:             constants.RentEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitLogger,
	}, connManager)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	listingEvents, err := rabbitmq_adapter.NewListingEventPublisher(eventsPublisher)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	credentialEvents, err := rabbitmq_adapter.NewCredentialEventPublisher(eventsPublisher)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	logger.Info("All outgoing adapters initialized", nil)

	// инициализация use-cases
	credentialRelay := usecase.NewCredentialRelayUseCase(credentialRepo, credentialEvents, appConfig.Credentials.Timeout)

	var enrichmentPort port.EnrichmentPort
	if appConfig.Enrichment.Enabled {
		analyzer, analyzerErr := enrichment.NewAnalyzerClient(appConfig.Enrichment.URL, appConfig.Enrichment.Timeout)
		if analyzerErr != nil {
			dbPool.Close()
			return nil, analyzerErr
		}
		enrichmentPort = analyzer
	}

	ingestUseCase := usecase.NewIngestListingsUseCase(listingRepo, listingEvents, enrichmentPort)

	collectors, err := buildCollectors(appConfig, credentialRelay, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	runCollectors := usecase.NewRunCollectorsUseCase(collectors, ingestUseCase)
	logger.Info("All use cases initialized", logging.Fields{"collectors": len(collectors)})

	// входящие адаптеры
	credentialAnswersListener, err := rabbitmq_adapter.NewCredentialAnswerListener(
		appConfig.RabbitMQ.URL, credentialRelay, connManager, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	logger.Info("Credential Answers Listener initialized", nil)

	// REST API Server
	filterHandler := rest.NewFilterHandler(filterRepo)
	apiServer := rest.NewServer(appConfig.RestPort, filterHandler, logger)

	// Собираем приложение
	application := &App{
		config:                    appConfig,
		logger:                    logger,
		dbPool:                    dbPool,
		apiServer:                 apiServer,
		runCollectors:             runCollectors,
		credentialAnswersListener: credentialAnswersListener,
	}

	return application, nil
}

// buildLogger собирает композитный логгер: цветной stdout всегда,
// Fluent Bit — если включен в конфигурации
func buildLogger(cfg *configs.AppConfig) (logging.LoggerPort, error) {
	stdoutLogger := logging.NewSlogAdapter(logging.SlogConfig{
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		UseColor: true,
	})

	if !cfg.FluentBit.Enabled {
		return stdoutLogger, nil
	}

	fluentClient, err := fluentlogger.NewClient(fluentlogger.Config{
		Host:      cfg.FluentBit.Host,
		Port:      cfg.FluentBit.Port,
		TagPrefix: cfg.AppName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent client: %w", err)
	}

	fluentAdapter, err := logging.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
	if err != nil {
		return nil, fmt.Errorf("failed to create fluent adapter: %w", err)
	}

	return logging.NewMultiloggerAdapter(stdoutLogger, fluentAdapter)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildCollectors собирает коллекторы из YAML-расписания источников
func buildCollectors(cfg *configs.AppConfig, codes port.CodeProviderPort, logger logging.LoggerPort) ([]port.CollectorPort, error) {
	sources, err := configs.LoadSources(cfg.SourcesFile)
	if err != nil {
		return nil, err
	}

	var collectors []port.CollectorPort

	if sources.Krisha.Enabled {
		krisha, krishaErr := krishafetcher.NewKrishaFetcherAdapter(
			sources.Krisha.BaseURL, sources.Krisha.City, sources.Krisha.Interval())
		if krishaErr != nil {
			return nil, fmt.Errorf("failed to create krisha collector: %w", krishaErr)
		}
		collectors = append(collectors, krisha)
	}

	for _, community := range sources.Communities {
		feed, feedErr := communityfeed.NewCommunityFeedAdapter(
			sources.GatewayURL, community.Channel, community.SessionID,
			codes, community.Interval(), logger)
		if feedErr != nil {
			return nil, fmt.Errorf("failed to create community collector %q: %w", community.Channel, feedErr)
		}
		collectors = append(collectors, feed)
	}

	return collectors, nil
}

// Run запускает все компоненты приложения и управляет их жизненным циклом
func (a *App) Run() error {
	// единый контекст для всего приложения для управления graceful shutdown
	appCtx, cancelApp := context.WithCancel(context.Background())
	appCtx = logging.ContextWithLogger(appCtx, a.logger)

	// для ожидания завершения всех фоновых задач
	var wg sync.WaitGroup

	defer func() {
		a.logger.Info("App: Shutdown sequence initiated...", nil)

		a.logger.Info("App: Waiting for background processes to finish...", nil)
		wg.Wait()
		a.logger.Info("App: All background processes finished", nil)

		// закрываем ресурсы
		if a.credentialAnswersListener != nil {
			if err := a.credentialAnswersListener.Close(); err != nil {
				a.logger.Error("App: Error closing credential answers listener", err, nil)
			}
		}

		if a.apiServer != nil {
			if err := a.apiServer.Stop(context.Background()); err != nil {
				a.logger.Error("App: Error closing api server", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("App: PostgreSQL pool closed", nil)
		}
		a.logger.Info("Application shut down gracefully", nil)
	}()

	a.logger.Info("Application is starting...", nil)

	consumerErrors := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("App: Starting Credential Answers Listener...", nil)
		if err := a.credentialAnswersListener.Start(appCtx); err != nil {
			a.logger.Error("App: Credential Answers Listener stopped with an unexpected error", err, nil)
			consumerErrors <- fmt.Errorf("credential answers listener error: %w", err)
		} else {
			a.logger.Info("App: Credential Answers Listener stopped gracefully due to context cancellation", nil)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.runCollectors.Execute(appCtx)
	}()

	go func() {
		a.logger.Info("Starting HTTP server", logging.Fields{"port": a.config.RestPort})
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Ожидание сигнала на завершение или ошибки от одного из компонентов
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or consumer error...", nil)
	select {
	case receivedSignal := <-quit:
		a.logger.Info("App: Received signal. Shutting down...", logging.Fields{"signal": receivedSignal.String()})
	case err := <-consumerErrors:
		a.logger.Error("App: A critical component failed. Shutting down...", err, nil)
	case <-appCtx.Done():
		a.logger.Warn("App: Context was cancelled unexpectedly. Shutting down...", nil)
	}

	// Инициируем graceful shutdown, отменяя главный контекст
	cancelApp()

	return nil
}
