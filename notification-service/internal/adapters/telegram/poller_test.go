package telegram

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"
	"github.com/open-ssl/krisha/pkg/logging"

	"github.com/google/uuid"
)

type recordingHandler struct {
	mu      sync.Mutex
	replies []adminReply
}

type adminReply struct {
	requestID uuid.UUID
	text      string
}

func (h *recordingHandler) Execute(ctx context.Context, requestID uuid.UUID, rawReply string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.replies = append(h.replies, adminReply{requestID, rawReply})
	return nil
}

func (h *recordingHandler) all() []adminReply {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]adminReply, len(h.replies))
	copy(out, h.replies)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestPollerForwardsAdminReply(t *testing.T) {
	stub := newBotAPIStub()
	messenger, client := newTestMessenger(t, stub)
	handler := &recordingHandler{}

	poller, err := NewPoller(client, messenger, handler, 99, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}

	requestID := uuid.New()
	prompt := domain.CredentialPrompt{RequestID: requestID, SessionID: "rent-almaty"}
	if err := messenger.SendCredentialPrompt(context.Background(), 99, prompt); err != nil {
		t.Fatalf("SendCredentialPrompt: %v", err)
	}

	// админ отвечает reply-ем на промпт (message_id 101)
	stub.pushUpdate(Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 200,
			Text:      "12345",
			From:      &User{ID: 99},
			Chat:      Chat{ID: 99},
			ReplyTo:   &Message{MessageID: 101},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Start(ctx)

	waitFor(t, func() bool { return len(handler.all()) == 1 })

	got := handler.all()[0]
	if got.requestID != requestID {
		t.Errorf("got request_id %s, want %s", got.requestID, requestID)
	}
	if got.text != "12345" {
		t.Errorf("got reply %q, want %q", got.text, "12345")
	}

	// запрос закрыт, повторный ответ не резолвится
	waitFor(t, func() bool {
		_, ok := messenger.ResolvePrompt(101)
		return !ok
	})

	if err := poller.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPollerIgnoresStrangers(t *testing.T) {
	stub := newBotAPIStub()
	messenger, client := newTestMessenger(t, stub)
	handler := &recordingHandler{}

	poller, err := NewPoller(client, messenger, handler, 99, logging.NewNoopLogger())
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}

	prompt := domain.CredentialPrompt{RequestID: uuid.New(), SessionID: "rent-almaty"}
	if err := messenger.SendCredentialPrompt(context.Background(), 99, prompt); err != nil {
		t.Fatalf("SendCredentialPrompt: %v", err)
	}

	stub.pushUpdate(Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 200,
			Text:      "12345",
			From:      &User{ID: 12345678}, // не админ
			Chat:      Chat{ID: 12345678},
		},
	})
	stub.pushUpdate(Update{
		UpdateID: 2,
		Message: &Message{
			MessageID: 201,
			Text:      "54321",
			From:      &User{ID: 99},
			Chat:      Chat{ID: 99},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go poller.Start(ctx)

	waitFor(t, func() bool { return len(handler.all()) == 1 })

	if got := handler.all()[0].text; got != "54321" {
		t.Errorf("got reply %q, want the admin's %q", got, "54321")
	}

	if err := poller.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
