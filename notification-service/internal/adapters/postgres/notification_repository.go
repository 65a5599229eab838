package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository — журнал доставленных уведомлений.
// Ключ (user_id, listing_id) уникален; повторная вставка через
// ON CONFLICT DO NOTHING делает Record идемпотентным под гонкой.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) (*NotificationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &NotificationRepository{pool: pool}, nil
}

func (r *NotificationRepository) Exists(ctx context.Context, userID int64, listingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notification_records WHERE user_id = $1 AND listing_id = $2)`,
		userID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check notification record: %w", err)
	}
	return exists, nil
}

func (r *NotificationRepository) Record(ctx context.Context, userID int64, listingID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_records (user_id, listing_id, notified_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id, listing_id) DO NOTHING`,
		userID, listingID,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}
