package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/open-ssl/krisha/pkg/logging"

	"github.com/google/uuid"
)

const (
	longPollTimeoutSeconds = 30
	pollFailureBackoff     = 5 * time.Second
)

// AdminReplyHandler принимает ответ администратора на запрос кода
type AdminReplyHandler interface {
	Execute(ctx context.Context, requestID uuid.UUID, rawReply string) error
}

// Poller крутит getUpdates и превращает ответы администратора в ответы
// на запросы кодов. Сообщения от посторонних игнорирует.
type Poller struct {
	client    *Client
	messenger *Messenger
	handler   AdminReplyHandler
	adminID   int64
	logger    logging.LoggerPort

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(client *Client, messenger *Messenger, handler AdminReplyHandler, adminID int64, logger logging.LoggerPort) (*Poller, error) {
	if client == nil || messenger == nil || handler == nil {
		return nil, fmt.Errorf("telegram poller: client, messenger and handler are required")
	}
	if adminID == 0 {
		return nil, fmt.Errorf("telegram poller: admin chat id is required")
	}
	if logger == nil {
		logger = logging.NewNoopLogger()
	}
	return &Poller{
		client:    client,
		messenger: messenger,
		handler:   handler,
		adminID:   adminID,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start блокируется до отмены контекста либо вызова Close
func (p *Poller) Start(ctx context.Context) error {
	pollCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	defer close(p.done)

	p.logger.Info("Telegram poller started", logging.Fields{"admin_id": p.adminID})

	var offset int64
	for {
		updates, err := p.client.GetUpdates(pollCtx, offset, longPollTimeoutSeconds)
		if err != nil {
			if pollCtx.Err() != nil {
				return nil
			}
			p.logger.Error("Failed to fetch telegram updates", err, logging.Fields{})
			select {
			case <-pollCtx.Done():
				return nil
			case <-time.After(pollFailureBackoff):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			p.handleUpdate(pollCtx, update)
		}
	}
}

func (p *Poller) Close() error {
	if p.cancel == nil {
		return errors.New("telegram poller: not started")
	}
	p.cancel()
	<-p.done
	return nil
}

func (p *Poller) handleUpdate(ctx context.Context, update Update) {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	if msg.From.ID != p.adminID {
		p.logger.Warn("Ignoring message from non-admin chat", logging.Fields{
			"from_id": msg.From.ID,
		})
		return
	}

	var replyToID int64
	if msg.ReplyTo != nil {
		replyToID = msg.ReplyTo.MessageID
	}
	requestID, ok := p.messenger.ResolvePrompt(replyToID)
	if !ok {
		p.logger.Warn("Admin reply without a pending credential request", logging.Fields{
			"text_len": len(msg.Text),
		})
		p.reply(ctx, "Сейчас нет ожидающих запросов кода.")
		return
	}

	if err := p.handler.Execute(ctx, requestID, msg.Text); err != nil {
		p.logger.Error("Failed to process admin reply", err, logging.Fields{
			"request_id": requestID.String(),
		})
		p.reply(ctx, "Не получилось принять код, попробуйте еще раз.")
		return
	}
	p.messenger.ClosePrompt(requestID)
	p.logger.Info("Admin reply forwarded to scraper", logging.Fields{
		"request_id": requestID.String(),
	})
	p.reply(ctx, "Код принят ✅")
}

func (p *Poller) reply(ctx context.Context, text string) {
	if err := p.messenger.SendPlainText(ctx, p.adminID, text); err != nil {
		p.logger.Warn("Failed to reply to admin", logging.Fields{"error": err.Error()})
	}
}
