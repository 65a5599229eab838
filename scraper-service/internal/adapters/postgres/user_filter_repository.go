package postgres

import (
	"context"
	"fmt"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserFilterRepository — хранилище пользовательских фильтров поиска
type UserFilterRepository struct {
	pool *pgxpool.Pool
}

func NewUserFilterRepository(pool *pgxpool.Pool) (*UserFilterRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &UserFilterRepository{pool: pool}, nil
}

func (r *UserFilterRepository) Create(ctx context.Context, filter domain.UserFilter) (domain.UserFilter, error) {
	if filter.ID == uuid.Nil {
		filter.ID = uuid.New()
	}

	query := `
		INSERT INTO user_filters (
			id, user_id, rental_type, city, rooms,
			min_price, max_price, min_square, is_active, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, now())
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		filter.ID, filter.UserID, filter.RentalType, filter.City, filter.Rooms,
		filter.MinPrice, filter.MaxPrice, filter.MinSquare,
	).Scan(&filter.CreatedAt)
	if err != nil {
		return domain.UserFilter{}, fmt.Errorf("failed to create filter: %w", err)
	}

	filter.IsActive = true
	return filter, nil
}

func (r *UserFilterRepository) ListByUser(ctx context.Context, userID int64) ([]domain.UserFilter, error) {
	query := `
		SELECT id, user_id, rental_type, city, rooms,
		       min_price, max_price, min_square, is_active, created_at
		FROM user_filters
		WHERE user_id = $1 AND is_active = true
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list filters for user %d: %w", userID, err)
	}
	defer rows.Close()

	return scanFilters(rows)
}

// ListActive возвращает все активные фильтры всех пользователей —
// рабочий набор для матчинга входящих объявлений
func (r *UserFilterRepository) ListActive(ctx context.Context) ([]domain.UserFilter, error) {
	query := `
		SELECT id, user_id, rental_type, city, rooms,
		       min_price, max_price, min_square, is_active, created_at
		FROM user_filters
		WHERE is_active = true
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active filters: %w", err)
	}
	defer rows.Close()

	return scanFilters(rows)
}

// Deactivate помечает фильтр неактивным. Строка остается в таблице:
// история notification_records ссылается на filter_id.
func (r *UserFilterRepository) Deactivate(ctx context.Context, filterID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE user_filters SET is_active = false WHERE id = $1`, filterID)
	if err != nil {
		return fmt.Errorf("failed to deactivate filter %s: %w", filterID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFilterNotFound
	}
	return nil
}

func scanFilters(rows pgx.Rows) ([]domain.UserFilter, error) {
	var filters []domain.UserFilter
	for rows.Next() {
		var filter domain.UserFilter
		err := rows.Scan(
			&filter.ID, &filter.UserID, &filter.RentalType, &filter.City, &filter.Rooms,
			&filter.MinPrice, &filter.MaxPrice, &filter.MinSquare, &filter.IsActive, &filter.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan filter row: %w", err)
		}
		filters = append(filters, filter)
	}
	return filters, rows.Err()
}
