package port

import "context"

// CodeProviderPort — контракт для коллекторов, которым при входе нужен
// одноразовый код подтверждения. Вызов блокирует только текущую
// сессию сбора и завершается либо кодом, либо domain.ErrCodeRequestTimeout.
type CodeProviderPort interface {
	RequestCode(ctx context.Context, sessionID string, hint string) (string, error)
}
