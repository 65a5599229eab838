package postgres

import (
	"context"
	"fmt"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CredentialRepository — персистентная машина состояний запросов кода.
// Условие status = 'pending' в UPDATE делает оба перехода идемпотентными:
// повторное или позднее событие просто не затрагивает строк.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) (*CredentialRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &CredentialRepository{pool: pool}, nil
}

func (r *CredentialRepository) CreatePending(ctx context.Context, req domain.CredentialRequest) error {
	query := `
		INSERT INTO credential_requests (request_id, session_id, hint, status, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (request_id) DO NOTHING`

	_, err := r.pool.Exec(ctx, query,
		req.RequestID, req.SessionID, req.Hint, domain.CredentialStatusPending, req.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create credential request %s: %w", req.RequestID, err)
	}
	return nil
}

func (r *CredentialRepository) MarkAnswered(ctx context.Context, requestID uuid.UUID, code string) (bool, error) {
	query := `
		UPDATE credential_requests
		SET status = $1, code = $2, resolved_at = now()
		WHERE request_id = $3 AND status = $4`

	tag, err := r.pool.Exec(ctx, query,
		domain.CredentialStatusAnswered, code, requestID, domain.CredentialStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark credential request %s answered: %w", requestID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CredentialRepository) MarkExpired(ctx context.Context, requestID uuid.UUID) (bool, error) {
	query := `
		UPDATE credential_requests
		SET status = $1, resolved_at = now()
		WHERE request_id = $2 AND status = $3`

	tag, err := r.pool.Exec(ctx, query,
		domain.CredentialStatusExpired, requestID, domain.CredentialStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark credential request %s expired: %w", requestID, err)
	}
	return tag.RowsAffected() > 0, nil
}
