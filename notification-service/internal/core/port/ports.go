package port

import (
	"context"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

// FilterSourcePort отдает актуальный набор активных фильтров всех
// пользователей (scraper-service за коротким TTL-кэшем)
type FilterSourcePort interface {
	ActiveFilters(ctx context.Context) ([]domain.UserFilter, error)
}

// NotificationRecordsPort — журнал уже доставленных пар (пользователь,
// объявление). Record обязан быть идемпотентным: параллельная вставка
// той же пары не дает ни ошибки, ни дубля.
type NotificationRecordsPort interface {
	Exists(ctx context.Context, userID int64, listingID uuid.UUID) (bool, error)
	Record(ctx context.Context, userID int64, listingID uuid.UUID) error
}

// MessengerPort — доставка сообщений пользователям и администратору
type MessengerPort interface {
	SendListing(ctx context.Context, userID int64, listing domain.Listing) error
	SendCredentialPrompt(ctx context.Context, adminID int64, prompt domain.CredentialPrompt) error
}

// CredentialAnswerPort публикует ответ администратора обратно в брокер
type CredentialAnswerPort interface {
	PublishAnswer(ctx context.Context, requestID uuid.UUID, code string) error
}

// EventListenerPort — входящий слушатель событий брокера
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
