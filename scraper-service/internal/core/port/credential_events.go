package port

import (
	"context"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// CredentialEventsPort публикует событие credential.requested,
// которое notification-service превратит в личное сообщение администратору.
type CredentialEventsPort interface {
	PublishCodeNeeded(ctx context.Context, req domain.CredentialRequest) error
}
