package domain

import (
	"time"

	"github.com/google/uuid"
)

// Типы съёма, зеркалят контракт scraper-service
const (
	RentalTypeFullApartment = "full_apartment"
	RentalTypeRoomSharing   = "room_sharing"
)

// Listing — объявление, каким его доставило событие listing.ingested.
// Это проекция контракта события, а не полная запись хранилища.
type Listing struct {
	ID         uuid.UUID
	Source     string
	ExternalID string
	Change     string // "new" либо "updated"
	URL        string

	Price      *float64
	Rooms      *int
	City       string
	District   string
	Street     string
	Square     *float64
	RentalType string
	RawText    string

	Summary string // Краткая выжимка AI-анализа, если была

	FirstSeenAt time.Time
}

// UserFilter — активный фильтр пользователя, полученный из scraper-service
type UserFilter struct {
	ID         uuid.UUID
	UserID     int64
	RentalType string
	City       string
	Rooms      []int
	MinPrice   *float64
	MaxPrice   *float64
	MinSquare  *float64
}

// DispatchStatus — исход доставки уведомления одному пользователю
type DispatchStatus string

const (
	// DispatchSent — уведомление отправлено и записано
	DispatchSent DispatchStatus = "sent"
	// DispatchSkipped — пользователь уже получал это объявление
	DispatchSkipped DispatchStatus = "skipped"
	// DispatchFailed — доставка не удалась, записи нет, можно повторять
	DispatchFailed DispatchStatus = "failed"
)

// CredentialPrompt — запрос кода, который нужно показать администратору
type CredentialPrompt struct {
	RequestID uuid.UUID
	SessionID string
	Hint      string
	IssuedAt  time.Time
}
