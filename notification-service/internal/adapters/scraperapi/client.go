package scraperapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/open-ssl/krisha/notification-service/internal/core/domain"

	"github.com/google/uuid"
)

// Client — HTTP-клиент внутреннего API scraper-service
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("scraper api client: base URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}, nil
}

type filterDTO struct {
	ID         string   `json:"id"`
	UserID     int64    `json:"user_id"`
	RentalType string   `json:"rental_type"`
	City       string   `json:"city"`
	Rooms      []int    `json:"rooms"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	MinSquare  *float64 `json:"min_square"`
}

// ActiveFilters забирает все активные фильтры всех пользователей
func (c *Client) ActiveFilters(ctx context.Context) ([]domain.UserFilter, error) {
	url := c.baseURL + "/api/v1/filters/active"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("scraper api client: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper api client: %w: %v", domain.ErrFilterSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraper api client: unexpected status %d: %s: %w", resp.StatusCode, string(body), domain.ErrFilterSourceUnavailable)
	}

	var dtos []filterDTO
	if err := json.NewDecoder(resp.Body).Decode(&dtos); err != nil {
		return nil, fmt.Errorf("scraper api client: failed to decode filters: %w", err)
	}

	filters := make([]domain.UserFilter, 0, len(dtos))
	for _, dto := range dtos {
		id, parseErr := uuid.Parse(dto.ID)
		if parseErr != nil {
			// кривой фильтр пропускаем, остальные важнее
			continue
		}
		filters = append(filters, domain.UserFilter{
			ID:         id,
			UserID:     dto.UserID,
			RentalType: dto.RentalType,
			City:       dto.City,
			Rooms:      dto.Rooms,
			MinPrice:   dto.MinPrice,
			MaxPrice:   dto.MaxPrice,
			MinSquare:  dto.MinSquare,
		})
	}
	return filters, nil
}
