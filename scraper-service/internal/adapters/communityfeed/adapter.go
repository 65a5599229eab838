package communityfeed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/open-ssl/krisha/pkg/logging"
	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
	"github.com/open-ssl/krisha/scraper-service/internal/core/port"
)

// CommunityFeedAdapter читает сообщения жилищного сообщества через
// MTProto-шлюз. Реализует port.CollectorPort.
//
// Шлюз держит авторизованную сессию; когда она протухает, он отвечает
// 401 — тогда адаптер запрашивает одноразовый код у администратора через
// CodeProviderPort, подтверждает сессию и повторяет запрос.
type CommunityFeedAdapter struct {
	httpClient *http.Client
	baseURL    string
	channel    string
	sessionID  string
	codes      port.CodeProviderPort
	interval   time.Duration
	logger     logging.LoggerPort

	mu            sync.Mutex
	lastMessageID int64
}

func NewCommunityFeedAdapter(
	baseURL string,
	channel string,
	sessionID string,
	codes port.CodeProviderPort,
	interval time.Duration,
	logger logging.LoggerPort,
) (*CommunityFeedAdapter, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("community feed: base URL is required")
	}
	if codes == nil {
		return nil, fmt.Errorf("community feed: code provider is required")
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}

	return &CommunityFeedAdapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		channel:    channel,
		sessionID:  sessionID,
		codes:      codes,
		interval:   interval,
		logger:     logger,
	}, nil
}

func (a *CommunityFeedAdapter) Name() string {
	return "community:" + a.channel
}

func (a *CommunityFeedAdapter) Interval() time.Duration {
	return a.interval
}

type gatewayMessage struct {
	ID   int64  `json:"id"`
	Date int64  `json:"date"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Messages []gatewayMessage `json:"messages"`
}

// Collect забирает сообщения новее последнего виденного
func (a *CommunityFeedAdapter) Collect(ctx context.Context) ([]domain.Listing, error) {
	a.mu.Lock()
	minID := a.lastMessageID
	a.mu.Unlock()

	messages, err := a.fetchMessages(ctx, minID)
	if err == errSessionExpired {
		// Сессия шлюза протухла: просим код у администратора и пробуем снова
		if loginErr := a.confirmSession(ctx); loginErr != nil {
			return nil, loginErr
		}
		messages, err = a.fetchMessages(ctx, minID)
	}
	if err != nil {
		return nil, err
	}

	listings := make([]domain.Listing, 0, len(messages))
	maxID := minID
	for _, msg := range messages {
		if msg.Text == "" {
			continue
		}
		listings = append(listings, mapMessageToListing(a.channel, msg))
		if msg.ID > maxID {
			maxID = msg.ID
		}
	}

	a.mu.Lock()
	a.lastMessageID = maxID
	a.mu.Unlock()

	return listings, nil
}

var errSessionExpired = fmt.Errorf("community feed: gateway session expired")

func (a *CommunityFeedAdapter) fetchMessages(ctx context.Context, minID int64) ([]gatewayMessage, error) {
	url := fmt.Sprintf("%s/api/v1/channels/%s/messages?min_id=%d", a.baseURL, a.channel, minID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("community feed: failed to create request: %w", err)
	}
	req.Header.Set("X-Session-ID", a.sessionID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("community feed: %w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// разбираем ниже
	case http.StatusUnauthorized:
		return nil, errSessionExpired
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("community feed: gateway returned status %d: %s: %w", resp.StatusCode, string(body), domain.ErrSourceUnavailable)
	}

	var data messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("community feed: failed to decode messages: %w", err)
	}
	return data.Messages, nil
}

// confirmSession получает код у администратора и подтверждает сессию шлюза
func (a *CommunityFeedAdapter) confirmSession(ctx context.Context) error {
	hint := fmt.Sprintf("Login code needed for community feed %q", a.channel)

	a.logger.Warn("Gateway session expired, requesting confirmation code", logging.Fields{
		"channel":    a.channel,
		"session_id": a.sessionID,
	})

	code, err := a.codes.RequestCode(ctx, a.sessionID, hint)
	if err != nil {
		return fmt.Errorf("community feed: failed to obtain confirmation code: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return fmt.Errorf("community feed: failed to marshal confirm payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/sessions/%s/confirm", a.baseURL, a.sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("community feed: failed to create confirm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("community feed: %w: %v", domain.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("community feed: session confirm failed with status %d: %s", resp.StatusCode, string(body))
	}

	a.logger.Info("Gateway session confirmed", logging.Fields{
		"channel":    a.channel,
		"session_id": a.sessionID,
	})
	return nil
}
