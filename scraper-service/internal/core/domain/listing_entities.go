package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestResult — исход поглощения одного объявления хранилищем
type IngestResult string

const (
	IngestNew       IngestResult = "new"
	IngestUpdated   IngestResult = "updated"
	IngestUnchanged IngestResult = "unchanged"
)

// Типы съёма (как в боте: жильё целиком или подселение)
const (
	RentalTypeFullApartment = "full_apartment"
	RentalTypeRoomSharing   = "room_sharing"
)

// Listing — одно объявление об аренде, полученное из внешнего источника.
// Пара (Source, ExternalID) глобально уникальна: повторный скрапинг того же
// объявления обновляет запись, но никогда не дублирует её.
type Listing struct {
	ID         uuid.UUID
	Source     string // "krisha" либо "community:<id канала>"
	ExternalID string // Стабильный идентификатор внутри источника
	URL        string

	Price     *float64
	Rooms     *int
	City      string
	District  string
	Street    string
	Square    *float64
	Latitude  *float64
	Longitude *float64

	RentalType string
	RawText    string

	// Результат AI-анализа текста (заполняется для объявлений из сообществ)
	Enrichment *EnrichmentResult

	// Производное поле для детекции изменений, заполняется хранилищем
	ContentHash string

	FirstSeenAt time.Time
	UpdatedAt   time.Time
}

// EnrichmentResult — структурированные поля, извлеченные из свободного
// текста объявления внешним AI-анализатором. Для ядра это непрозрачный
// результат внешнего вызова.
type EnrichmentResult struct {
	IsRental   bool     `json:"is_rental"`
	RentalType string   `json:"rental_type,omitempty"`
	Price      *float64 `json:"price,omitempty"`
	Rooms      *int     `json:"rooms,omitempty"`
	City       string   `json:"city,omitempty"`
	District   string   `json:"district,omitempty"`
	Square     *float64 `json:"square,omitempty"`
	Contact    string   `json:"contact,omitempty"`
	Summary    string   `json:"summary,omitempty"`
}

// IngestStats — агрегированная статистика одного прогона поглощения
type IngestStats struct {
	New       int
	Updated   int
	Unchanged int
	Failed    int
}
