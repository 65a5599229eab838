package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// ListingRepository — хранилище объявлений поверх PostgreSQL.
// Дедупликация делается одним upsert-стейтментом: решение new/updated
// принимает сама БД, поэтому гонка двух коллекторов за одно объявление
// не дает дублей.
type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingRepository{pool: pool}, nil
}

// ingestQuery: вставка либо обновление по (source, external_id).
// DO UPDATE срабатывает только при изменившемся content_hash; для
// идентичного содержимого запрос не возвращает строк вообще.
// (xmax = 0) отличает свежевставленную строку от обновленной.
const ingestQuery = `
	INSERT INTO listings (
		id, source, external_id, url,
		price, rooms, city, district, street, square, latitude, longitude,
		rental_type, raw_text, enrichment, content_hash,
		first_seen_at, updated_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16,
		now(), now()
	)
	ON CONFLICT (source, external_id) DO UPDATE SET
		url = EXCLUDED.url,
		price = EXCLUDED.price,
		rooms = EXCLUDED.rooms,
		city = EXCLUDED.city,
		district = EXCLUDED.district,
		street = EXCLUDED.street,
		square = EXCLUDED.square,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		rental_type = EXCLUDED.rental_type,
		raw_text = EXCLUDED.raw_text,
		enrichment = EXCLUDED.enrichment,
		content_hash = EXCLUDED.content_hash,
		updated_at = now()
	WHERE listings.content_hash IS DISTINCT FROM EXCLUDED.content_hash
	RETURNING id, first_seen_at, updated_at, (xmax = 0) AS inserted`

// Ingest сохраняет объявление и сообщает, что именно произошло.
// Заполняет ContentHash всегда; ID и даты — для new и updated.
func (r *ListingRepository) Ingest(ctx context.Context, listing *domain.Listing) (domain.IngestResult, error) {
	listing.ContentHash = calculateContentHash(buildListingHashPayload(*listing))

	result, err := r.ingestOnce(ctx, listing)
	if err == nil {
		return result, nil
	}

	// Гонка двух параллельных вставок одного объявления: проигравший
	// получает 23505, повтор превращает его вставку в обновление
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return r.ingestOnce(ctx, listing)
	}

	return "", err
}

func (r *ListingRepository) ingestOnce(ctx context.Context, listing *domain.Listing) (domain.IngestResult, error) {
	var enrichmentJSON []byte
	if listing.Enrichment != nil {
		var err error
		enrichmentJSON, err = json.Marshal(listing.Enrichment)
		if err != nil {
			return "", fmt.Errorf("failed to marshal enrichment: %w", err)
		}
	}

	newID := listing.ID
	if newID == uuid.Nil {
		newID = uuid.New()
	}

	var inserted bool
	err := r.pool.QueryRow(ctx, ingestQuery,
		newID, listing.Source, listing.ExternalID, listing.URL,
		listing.Price, listing.Rooms, listing.City, listing.District, listing.Street,
		listing.Square, listing.Latitude, listing.Longitude,
		listing.RentalType, listing.RawText, enrichmentJSON, listing.ContentHash,
	).Scan(&listing.ID, &listing.FirstSeenAt, &listing.UpdatedAt, &inserted)

	if errors.Is(err, pgx.ErrNoRows) {
		// Строка существует и content_hash совпал: содержимое не менялось
		return domain.IngestUnchanged, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to ingest listing %s/%s: %w", listing.Source, listing.ExternalID, err)
	}

	if inserted {
		return domain.IngestNew, nil
	}
	return domain.IngestUpdated, nil
}
