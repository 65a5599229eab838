package rest

import (
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// CreateFilterRequest — тело POST /api/v1/filters
type CreateFilterRequest struct {
	UserID     int64    `json:"user_id"`
	RentalType string   `json:"rental_type"`
	City       string   `json:"city"`
	Rooms      []int    `json:"rooms,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	MinSquare  *float64 `json:"min_square,omitempty"`
}

// FilterResponse — представление фильтра в ответах API
type FilterResponse struct {
	ID         string    `json:"id"`
	UserID     int64     `json:"user_id"`
	RentalType string    `json:"rental_type"`
	City       string    `json:"city"`
	Rooms      []int     `json:"rooms,omitempty"`
	MinPrice   *float64  `json:"min_price,omitempty"`
	MaxPrice   *float64  `json:"max_price,omitempty"`
	MinSquare  *float64  `json:"min_square,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toFilterResponse(filter domain.UserFilter) FilterResponse {
	return FilterResponse{
		ID:         filter.ID.String(),
		UserID:     filter.UserID,
		RentalType: filter.RentalType,
		City:       filter.City,
		Rooms:      filter.Rooms,
		MinPrice:   filter.MinPrice,
		MaxPrice:   filter.MaxPrice,
		MinSquare:  filter.MinSquare,
		IsActive:   filter.IsActive,
		CreatedAt:  filter.CreatedAt,
	}
}

func toFilterResponses(filters []domain.UserFilter) []FilterResponse {
	responses := make([]FilterResponse, 0, len(filters))
	for _, filter := range filters {
		responses = append(responses, toFilterResponse(filter))
	}
	return responses
}
