package domain

import (
	"time"

	"github.com/google/uuid"
)

// CredentialRequestStatus — состояние запроса на одноразовый код входа
type CredentialRequestStatus string

const (
	CredentialStatusPending  CredentialRequestStatus = "pending"
	CredentialStatusAnswered CredentialRequestStatus = "answered"
	CredentialStatusExpired  CredentialRequestStatus = "expired"
)

// CredentialRequest — персистентная машина состояний обмена кодом
// подтверждения между скрапинг-сессией и администратором.
// Переходы: pending -> answered (ответ администратора) либо
// pending -> expired (истек срок ожидания). Любой другой переход запрещен.
type CredentialRequest struct {
	RequestID  uuid.UUID // Уникальный корреляционный токен
	SessionID  string    // Сессия скрапинга, которой нужен код
	Hint       string    // Человекочитаемая подсказка для администратора
	Status     CredentialRequestStatus
	Code       string // Заполняется только в статусе answered
	IssuedAt   time.Time
	ResolvedAt *time.Time
}
