package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/open-ssl/krisha/notification-service/internal/adapters/filtercache"
	postgres_adapter "github.com/open-ssl/krisha/notification-service/internal/adapters/postgres"
	rabbitmq_adapter "github.com/open-ssl/krisha/notification-service/internal/adapters/rabbitmq"
	"github.com/open-ssl/krisha/notification-service/internal/adapters/scraperapi"
	"github.com/open-ssl/krisha/notification-service/internal/adapters/telegram"
	"github.com/open-ssl/krisha/notification-service/internal/configs"
	"github.com/open-ssl/krisha/notification-service/internal/constants"
	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/notification-service/internal/core/usecase"
	fluentlogger "github.com/open-ssl/krisha/pkg/fluent_logger"
	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/pkg/postgres"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_common"
	"github.com/open-ssl/krisha/pkg/rabbitmq/rabbitmq_producer"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App – структура приложения
type App struct {
	config *configs.AppConfig
	logger logging.LoggerPort
	dbPool *pgxpool.Pool

	listingsListener           port.EventListenerPort
	credentialRequestsListener port.EventListenerPort
	adminReplyPoller           port.EventListenerPort
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
	notificationRepo, err := postgres_adapter.NewNotificationRepository(dbPool)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to create notification repository: %w", err)
	}

	scraperClient, err := scraperapi.NewClient(appConfig.ScraperAPI.URL, appConfig.ScraperAPI.Timeout)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	filterSource, err := filtercache.NewCache(scraperClient, appConfig.ScraperAPI.FilterCacheTTL)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	tgClient, err := telegram.NewClient(telegram.ClientConfig{
		Token:   appConfig.Telegram.BotToken,
		BaseURL: appConfig.Telegram.APIBaseURL,
	})
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	messenger, err := telegram.NewMessenger(tgClient)
	if err != nil {
		dbPool.Close()
		return nil, err
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

	answerPublisher, err := rabbitmq_adapter.NewCredentialAnswerPublisher(eventsPublisher)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	logger.Info("All outgoing adapters initialized", nil)

	// инициализация use-cases
	dispatcher := usecase.NewDispatchNotificationUseCase(notificationRepo, messenger)
	processListing := usecase.NewProcessIngestedListingUseCase(filterSource, dispatcher)
	forwardPrompt := usecase.NewForwardCodeRequestUseCase(messenger, appConfig.Telegram.AdminChatID)
	acceptReply := usecase.NewAcceptAdminReplyUseCase(answerPublisher)
	logger.Info("All use cases initialized", nil)

	// входящие адаптеры
	listingsListener, err := rabbitmq_adapter.NewIngestedListingListener(
		appConfig.RabbitMQ.URL, processListing, connManager, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	credentialRequestsListener, err := rabbitmq_adapter.NewCredentialRequestListener(
		appConfig.RabbitMQ.URL, forwardPrompt, connManager, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	adminReplyPoller, err := telegram.NewPoller(
		tgClient, messenger, acceptReply, appConfig.Telegram.AdminChatID, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	logger.Info("All incoming adapters initialized", nil)

	application := &App{
		config:                     appConfig,
		logger:                     logger,
		dbPool:                     dbPool,
		listingsListener:           listingsListener,
		credentialRequestsListener: credentialRequestsListener,
		adminReplyPoller:           adminReplyPoller,
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
		if a.listingsListener != nil {
			if err := a.listingsListener.Close(); err != nil {
				a.logger.Error("App: Error closing listings listener", err, nil)
			}
		}
		if a.credentialRequestsListener != nil {
			if err := a.credentialRequestsListener.Close(); err != nil {
				a.logger.Error("App: Error closing credential requests listener", err, nil)
			}
		}

		if a.dbPool != nil {
			a.dbPool.Close()
			a.logger.Info("App: PostgreSQL pool closed", nil)
		}
		a.logger.Info("Application shut down gracefully", nil)
	}()

	a.logger.Info("Application is starting...", nil)

	consumerErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("App: Starting Ingested Listings Listener...", nil)
		if err := a.listingsListener.Start(appCtx); err != nil {
			a.logger.Error("App: Ingested Listings Listener stopped with an unexpected error", err, nil)
			consumerErrors <- fmt.Errorf("ingested listings listener error: %w", err)
		} else {
			a.logger.Info("App: Ingested Listings Listener stopped gracefully due to context cancellation", nil)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("App: Starting Credential Requests Listener...", nil)
		if err := a.credentialRequestsListener.Start(appCtx); err != nil {
			a.logger.Error("App: Credential Requests Listener stopped with an unexpected error", err, nil)
			consumerErrors <- fmt.Errorf("credential requests listener error: %w", err)
		} else {
			a.logger.Info("App: Credential Requests Listener stopped gracefully due to context cancellation", nil)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.logger.Info("App: Starting Telegram admin reply poller...", nil)
		if err := a.adminReplyPoller.Start(appCtx); err != nil {
			a.logger.Error("App: Telegram poller stopped with an unexpected error", err, nil)
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
