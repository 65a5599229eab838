package port

import "context"

// EventListenerPort — входящий слушатель событий брокера
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
