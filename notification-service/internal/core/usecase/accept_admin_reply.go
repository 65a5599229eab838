package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/open-ssl/krisha/notification-service/internal/core/port"
	"github.com/open-ssl/krisha/pkg/logging"

	"github.com/google/uuid"
)

// AcceptAdminReplyUseCase принимает ответ администратора с кодом и
// публикует его в брокер. Корреляцию ответа с request_id делает
// телеграм-адаптер, здесь только валидация и публикация.
type AcceptAdminReplyUseCase struct {
	answers port.CredentialAnswerPort
}

func NewAcceptAdminReplyUseCase(answers port.CredentialAnswerPort) *AcceptAdminReplyUseCase {
	return &AcceptAdminReplyUseCase{answers: answers}
}

func (uc *AcceptAdminReplyUseCase) Execute(ctx context.Context, requestID uuid.UUID, rawCode string) error {
	logger := logging.LoggerFromContext(ctx)

	code := normalizeCode(rawCode)
	if code == "" {
		return fmt.Errorf("admin reply for request %s contains no code", requestID)
	}

	if err := uc.answers.PublishAnswer(ctx, requestID, code); err != nil {
		return fmt.Errorf("publish credential answer %s: %w", requestID, err)
	}

	logger.Info("Credential answer published", logging.Fields{
		"request_id": requestID.String(),
	})
	return nil
}

// normalizeCode достает код из ответа администратора: люди присылают
// "123 456", "код: 12345" и подобное. Кодом считаем все цифры сообщения.
func normalizeCode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
