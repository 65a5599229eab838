package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/google/uuid"
)

// CredentialStorePort — персистентное состояние запросов кода подтверждения.
// Все переходы идемпотентны: MarkAnswered и MarkExpired меняют только запись
// в статусе pending и сообщают, был ли переход выполнен. Повторное событие
// для того же request_id превращается в no-op.
type CredentialStorePort interface {
	// CreatePending сохраняет новый запрос; повторная вставка того же
	// request_id не является ошибкой
	CreatePending(ctx context.Context, req domain.CredentialRequest) error

	// MarkAnswered переводит pending -> answered и сохраняет код.
	// Возвращает false, если запись уже не была pending (поздний или
	// повторный ответ).
	MarkAnswered(ctx context.Context, requestID uuid.UUID, code string) (bool, error)

	// MarkExpired переводит pending -> expired по таймауту
	MarkExpired(ctx context.Context, requestID uuid.UUID) (bool, error)
}
