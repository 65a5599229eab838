package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"

	"github.com/google/uuid"
)

// CredentialRelayUseCase доставляет одноразовые коды подтверждения от
// администратора к коллектору. RequestCode публикует запрос в брокер и
// блокируется до ответа либо таймаута; Resolve вызывается консьюмером
// событий credential.answered и будит ожидающий коллектор.
//
// Состояние запроса персистентно (CredentialStorePort), поэтому поздний
// ответ после рестарта сервиса корректно распознается как expired, а не
// как неизвестный request_id.
type CredentialRelayUseCase struct {
	store   port.CredentialStorePort
	events  port.CredentialEventsPort
	timeout time.Duration

	mu      sync.Mutex
	waiters map[uuid.UUID]chan string
}

func NewCredentialRelayUseCase(
	store port.CredentialStorePort,
	events port.CredentialEventsPort,
	timeout time.Duration,
) *CredentialRelayUseCase {
	return &CredentialRelayUseCase{
		store:   store,
		events:  events,
		timeout: timeout,
		waiters: make(map[uuid.UUID]chan string),
	}
}

// RequestCode реализует port.CodeProviderPort
func (uc *CredentialRelayUseCase) RequestCode(ctx context.Context, sessionID string, hint string) (string, error) {
	logger := logging.LoggerFromContext(ctx)

	req := domain.CredentialRequest{
		RequestID: uuid.New(),
		SessionID: sessionID,
		Hint:      hint,
		Status:    domain.CredentialStatusPending,
		IssuedAt:  time.Now().UTC(),
	}

	if err := uc.store.CreatePending(ctx, req); err != nil {
		return "", fmt.Errorf("persist credential request: %w", err)
	}

	waiter := uc.registerWaiter(req.RequestID)
	defer uc.removeWaiter(req.RequestID)

	if err := uc.events.PublishCodeNeeded(ctx, req); err != nil {
		return "", fmt.Errorf("publish credential request: %w", err)
	}

	logger.Info("Waiting for confirmation code", logging.Fields{
		"request_id": req.RequestID.String(),
		"session_id": sessionID,
		"timeout":    uc.timeout.String(),
	})

	timer := time.NewTimer(uc.timeout)
	defer timer.Stop()

	select {
	case code := <-waiter:
		return code, nil
	case <-timer.C:
		uc.expire(ctx, req.RequestID)
		return "", fmt.Errorf("request %s: %w", req.RequestID, domain.ErrCodeRequestTimeout)
	case <-ctx.Done():
		uc.expire(ctx, req.RequestID)
		return "", ctx.Err()
	}
}

func (uc *CredentialRelayUseCase) expire(ctx context.Context, requestID uuid.UUID) {
	if _, err := uc.store.MarkExpired(ctx, requestID); err != nil {
		logging.LoggerFromContext(ctx).Error("Failed to mark credential request expired", err, logging.Fields{
			"request_id": requestID.String(),
		})
	}
}

// Resolve обрабатывает поступивший ответ администратора. Ответ на
// неизвестный, просроченный или уже отвеченный запрос — no-op без ошибки:
// событие в брокере могло быть доставлено повторно.
func (uc *CredentialRelayUseCase) Resolve(ctx context.Context, requestID uuid.UUID, code string) error {
	logger := logging.LoggerFromContext(ctx)

	answered, err := uc.store.MarkAnswered(ctx, requestID, code)
	if err != nil {
		return fmt.Errorf("mark credential request answered: %w", err)
	}
	if !answered {
		logger.Warn("Dropping late or duplicate credential answer", logging.Fields{
			"request_id": requestID.String(),
		})
		return nil
	}

	uc.mu.Lock()
	waiter, ok := uc.waiters[requestID]
	uc.mu.Unlock()

	if !ok {
		// запись была pending в БД, но ожидающей горутины нет:
		// ответ пришел после рестарта сервиса
		logger.Warn("Credential answer accepted but no waiter present", logging.Fields{
			"request_id": requestID.String(),
		})
		return nil
	}

	select {
	case waiter <- code:
	default:
	}

	logger.Info("Confirmation code delivered", logging.Fields{
		"request_id": requestID.String(),
	})
	return nil
}

func (uc *CredentialRelayUseCase) registerWaiter(requestID uuid.UUID) chan string {
	// буфер на один код: Resolve не должен блокироваться на доставке
	waiter := make(chan string, 1)
	uc.mu.Lock()
	uc.waiters[requestID] = waiter
	uc.mu.Unlock()
	return waiter
}

func (uc *CredentialRelayUseCase) removeWaiter(requestID uuid.UUID) {
	uc.mu.Lock()
	delete(uc.waiters, requestID)
	uc.mu.Unlock()
}
