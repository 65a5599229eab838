package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

// Окно жизни промпта зеркалит таймаут ожидания кода на стороне скрейпера:
// после него ответ админа все равно уже никого не разбудит
const defaultPromptTTL = 5 * time.Minute

type pendingPrompt struct {
	requestID uuid.UUID
	messageID int64
	sentAt    time.Time
}

// Messenger отправляет пользователям карточки объявлений и пересылает
// администратору запросы кодов. Запомненные message_id промптов нужны
// поллеру, чтобы связать ответ админа с request_id.
type Messenger struct {
	client    *Client
	promptTTL time.Duration

	mu      sync.Mutex
	pending []pendingPrompt // в порядке отправки, старые впереди
}

func NewMessenger(client *Client) (*Messenger, error) {
	if client == nil {
		return nil, fmt.Errorf("telegram messenger: client cannot be nil")
	}
	return &Messenger{
		client:    client,
		promptTTL: defaultPromptTTL,
	}, nil
}

func (m *Messenger) SendListing(ctx context.Context, userID int64, listing domain.Listing) error {
	text := formatListingMessage(listing)
	if _, err := m.client.SendMessage(ctx, userID, text, "HTML"); err != nil {
		return wrapSendError(err)
	}
	return nil
}

// SendCredentialPrompt идемпотентен по request_id: повторная доставка
// события не дублирует сообщение администратору
func (m *Messenger) SendCredentialPrompt(ctx context.Context, adminID int64, prompt domain.CredentialPrompt) error {
	m.mu.Lock()
	m.dropExpiredLocked()
	for _, p := range m.pending {
		if p.requestID == prompt.RequestID {
			m.mu.Unlock()
			return nil
		}
	}
	m.mu.Unlock()

	var b strings.Builder
	b.WriteString("🔐 <b>Требуется код подтверждения</b>\n\n")
	fmt.Fprintf(&b, "Сессия: <code>%s</code>\n", html.EscapeString(prompt.SessionID))
	if prompt.Hint != "" {
		fmt.Fprintf(&b, "Подсказка: %s\n", html.EscapeString(prompt.Hint))
	}
	fmt.Fprintf(&b, "\nОтветьте на это сообщение кодом.\nЗапрос: <code>%s</code>", prompt.RequestID)

	msg, err := m.client.SendMessage(ctx, adminID, b.String(), "HTML")
	if err != nil {
		return wrapSendError(err)
	}

	m.mu.Lock()
	m.pending = append(m.pending, pendingPrompt{
		requestID: prompt.RequestID,
		messageID: msg.MessageID,
		sentAt:    time.Now(),
	})
	m.mu.Unlock()
	return nil
}

// SendPlainText — служебные ответы администратору (подтверждения, отказы)
func (m *Messenger) SendPlainText(ctx context.Context, chatID int64, text string) error {
	if _, err := m.client.SendMessage(ctx, chatID, text, ""); err != nil {
		return wrapSendError(err)
	}
	return nil
}

// ResolvePrompt возвращает request_id по message_id промпта. Если админ
// ответил не reply-ем, берем самый старый незакрытый запрос.
func (m *Messenger) ResolvePrompt(replyToMessageID int64) (uuid.UUID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropExpiredLocked()

	for _, p := range m.pending {
		if p.messageID == replyToMessageID {
			return p.requestID, true
		}
	}
	if len(m.pending) > 0 {
		return m.pending[0].requestID, true
	}
	return uuid.Nil, false
}

// ClosePrompt убирает запрос из ожидающих после успешного ответа
func (m *Messenger) ClosePrompt(requestID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.pending[:0]
	for _, p := range m.pending {
		if p.requestID != requestID {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

func (m *Messenger) dropExpiredLocked() {
	kept := m.pending[:0]
	for _, p := range m.pending {
		if time.Since(p.sentAt) < m.promptTTL {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

// wrapSendError разделяет вечный отказ (пользователь заблокировал бота)
// и транзиентные сбои
func wrapSendError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code == 403 {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryForbidden, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrMessengerUnavailable, err)
}

func formatListingMessage(listing domain.Listing) string {
	var b strings.Builder

	switch listing.Change {
	case "updated":
		b.WriteString("♻️ <b>Обновление объявления</b>\n\n")
	default:
		b.WriteString("🏠 <b>Новое объявление</b>\n\n")
	}

	if listing.Price != nil {
		fmt.Fprintf(&b, "💰 %.0f ₸\n", *listing.Price)
	}
	if listing.Rooms != nil {
		fmt.Fprintf(&b, "🚪 Комнат: %d\n", *listing.Rooms)
	}
	if listing.Square != nil {
		fmt.Fprintf(&b, "📐 Площадь: %.1f м²\n", *listing.Square)
	}

	location := listing.City
	if listing.District != "" {
		location += ", " + listing.District
	}
	if listing.Street != "" {
		location += ", " + listing.Street
	}
	if location != "" {
		fmt.Fprintf(&b, "📍 %s\n", html.EscapeString(location))
	}

	if listing.RentalType == domain.RentalTypeRoomSharing {
		b.WriteString("👥 Подселение\n")
	}

	if listing.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", html.EscapeString(listing.Summary))
	}

	if listing.URL != "" {
		fmt.Fprintf(&b, "\n<a href=\"%s\">Открыть объявление</a>", listing.URL)
	} else if listing.RawText != "" {
		text := listing.RawText
		if len([]rune(text)) > 500 {
			text = string([]rune(text)[:500]) + "…"
		}
		fmt.Fprintf(&b, "\n%s", html.EscapeString(text))
	}

	return b.String()
}
