package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserFilter — пользовательский фильтр поиска жилья.
// Пользователь может держать несколько активных фильтров одновременно;
// фильтр с IsActive=false никогда не участвует в матчинге.
type UserFilter struct {
	ID         uuid.UUID
	UserID     int64 // Telegram user ID
	RentalType string
	City       string
	Rooms      []int
	MinPrice   *float64
	MaxPrice   *float64
	MinSquare  *float64
	IsActive   bool
	CreatedAt  time.Time
}
