package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeAnswerPublisher struct {
	requestID uuid.UUID
	code      string
	err       error
}

func (p *fakeAnswerPublisher) PublishAnswer(ctx context.Context, requestID uuid.UUID, code string) error {
	if p.err != nil {
		return p.err
	}
	p.requestID = requestID
	p.code = code
	return nil
}

func TestAcceptAdminReplyNormalizesCode(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12345", "12345"},
		{"123 456", "123456"},
		{"код: 54321", "54321"},
		{"  777-888\n", "777888"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			publisher := &fakeAnswerPublisher{}
			uc := NewAcceptAdminReplyUseCase(publisher)
			requestID := uuid.New()

			if err := uc.Execute(context.Background(), requestID, tt.raw); err != nil {
				t.Fatalf("Execute returned error: %v", err)
			}
			if publisher.code != tt.want {
				t.Errorf("got code %q, want %q", publisher.code, tt.want)
			}
			if publisher.requestID != requestID {
				t.Errorf("got request_id %s, want %s", publisher.requestID, requestID)
			}
		})
	}
}

func TestAcceptAdminReplyRejectsCodelessMessage(t *testing.T) {
	uc := NewAcceptAdminReplyUseCase(&fakeAnswerPublisher{})

	if err := uc.Execute(context.Background(), uuid.New(), "не сейчас"); err == nil {
		t.Error("expected error for a reply without digits")
	}
}

func TestAcceptAdminReplyPropagatesPublishError(t *testing.T) {
	uc := NewAcceptAdminReplyUseCase(&fakeAnswerPublisher{err: errors.New("broker down")})

	if err := uc.Execute(context.Background(), uuid.New(), "12345"); err == nil {
		t.Error("expected error when publish fails")
	}
}
