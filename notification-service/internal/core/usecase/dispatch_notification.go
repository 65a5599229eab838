package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/pkg/logging"
)

const (
	dispatchMaxAttempts  = 3
	dispatchInitialDelay = 2 * time.Second
)

// DispatchNotificationUseCase доставляет одно объявление одному
// пользователю ровно один раз. Порядок строгий: сначала проверка журнала,
// затем отправка, затем запись. Запись после отправки, а не до —
// пропущенное уведомление хуже, чем редкий дубль при падении между
// отправкой и записью.
type DispatchNotificationUseCase struct {
	records   port.NotificationRecordsPort
	messenger port.MessengerPort

	maxAttempts  int
	initialDelay time.Duration
}

func NewDispatchNotificationUseCase(records port.NotificationRecordsPort, messenger port.MessengerPort) *DispatchNotificationUseCase {
	return &DispatchNotificationUseCase{
		records:      records,
		messenger:    messenger,
		maxAttempts:  dispatchMaxAttempts,
		initialDelay: dispatchInitialDelay,
	}
}

// Execute возвращает исход доставки; ошибка сопровождает только DispatchFailed
func (uc *DispatchNotificationUseCase) Execute(ctx context.Context, userID int64, listing domain.Listing) (domain.DispatchStatus, error) {
	logger := logging.LoggerFromContext(ctx)

	seen, err := uc.records.Exists(ctx, userID, listing.ID)
	if err != nil {
		return domain.DispatchFailed, fmt.Errorf("check notification record: %w", err)
	}
	if seen {
		return domain.DispatchSkipped, nil
	}

	if err = uc.sendWithRetry(ctx, userID, listing); err != nil {
		if errors.Is(err, domain.ErrDeliveryForbidden) {
			// Пользователь заблокировал бота. Записываем как доставленное,
			// чтобы передоставка события не гоняла отправку по кругу
			logger.Warn("User blocked the bot, marking listing as handled", logging.Fields{
				"user_id":    userID,
				"listing_id": listing.ID.String(),
			})
			if recordErr := uc.records.Record(ctx, userID, listing.ID); recordErr != nil {
				return domain.DispatchFailed, fmt.Errorf("record forbidden delivery: %w", recordErr)
			}
			return domain.DispatchSkipped, nil
		}
		// Записи нет: пользователь получит объявление при следующей попытке
		return domain.DispatchFailed, err
	}

	if err = uc.records.Record(ctx, userID, listing.ID); err != nil {
		// Сообщение уже ушло; отсутствие записи грозит лишь дублем
		logger.Error("Notification sent but failed to record it", err, logging.Fields{
			"user_id":    userID,
			"listing_id": listing.ID.String(),
		})
		return domain.DispatchFailed, fmt.Errorf("record notification: %w", err)
	}

	return domain.DispatchSent, nil
}

// sendWithRetry повторяет отправку с удвоением паузы между попытками
func (uc *DispatchNotificationUseCase) sendWithRetry(ctx context.Context, userID int64, listing domain.Listing) error {
	logger := logging.LoggerFromContext(ctx)

	delay := uc.initialDelay
	var lastErr error
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		lastErr = uc.messenger.SendListing(ctx, userID, listing)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, domain.ErrDeliveryForbidden) {
			return lastErr
		}

		logger.Warn("Notification send attempt failed", logging.Fields{
			"user_id":    userID,
			"listing_id": listing.ID.String(),
			"attempt":    attempt,
			"error":      lastErr.Error(),
		})

		if attempt == uc.maxAttempts {
			break
		}

		select {
		case <-time.After(delay):
			delay *= 2
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("send listing to user %d: %w", userID, lastErr)
}
