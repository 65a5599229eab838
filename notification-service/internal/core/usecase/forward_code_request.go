package usecase

import (
	"context"
	"fmt"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/pkg/logging"
)

// ForwardCodeRequestUseCase пересылает запрос кода подтверждения
// администратору в личные сообщения
type ForwardCodeRequestUseCase struct {
	messenger port.MessengerPort
	adminID   int64
}

func NewForwardCodeRequestUseCase(messenger port.MessengerPort, adminID int64) *ForwardCodeRequestUseCase {
	return &ForwardCodeRequestUseCase{
		messenger: messenger,
		adminID:   adminID,
	}
}

func (uc *ForwardCodeRequestUseCase) Execute(ctx context.Context, prompt domain.CredentialPrompt) error {
	logger := logging.LoggerFromContext(ctx)

	if err := uc.messenger.SendCredentialPrompt(ctx, uc.adminID, prompt); err != nil {
		return fmt.Errorf("forward credential prompt %s: %w", prompt.RequestID, err)
	}

	logger.Info("Credential prompt forwarded to admin", logging.Fields{
		"request_id": prompt.RequestID.String(),
		"session_id": prompt.SessionID,
	})
	return nil
}
