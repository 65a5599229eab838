package rabbitmq

import (
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// ListingIngestedEvent — контракт события listing.ingested (v1)
type ListingIngestedEvent struct {
	ListingID   string                   `json:"listing_id"`
	Source      string                   `json:"source"`
	ExternalID  string                   `json:"external_id"`
	Change      string                   `json:"change"`
	URL         string                   `json:"url,omitempty"`
	Price       *float64                 `json:"price,omitempty"`
	Rooms       *int                     `json:"rooms,omitempty"`
	City        string                   `json:"city,omitempty"`
	District    string                   `json:"district,omitempty"`
	Street      string                   `json:"street,omitempty"`
	Square      *float64                 `json:"square,omitempty"`
	RentalType  string                   `json:"rental_type,omitempty"`
	RawText     string                   `json:"raw_text,omitempty"`
	Enrichment  *domain.EnrichmentResult `json:"enrichment,omitempty"`
	FirstSeenAt time.Time                `json:"first_seen_at"`
}

func newListingIngestedEvent(listing domain.Listing, change domain.IngestResult) ListingIngestedEvent {
	return ListingIngestedEvent{
		ListingID:   listing.ID.String(),
		Source:      listing.Source,
		ExternalID:  listing.ExternalID,
		Change:      string(change),
		URL:         listing.URL,
		Price:       listing.Price,
		Rooms:       listing.Rooms,
		City:        listing.City,
		District:    listing.District,
		Street:      listing.Street,
		Square:      listing.Square,
		RentalType:  listing.RentalType,
		RawText:     listing.RawText,
		Enrichment:  listing.Enrichment,
		FirstSeenAt: listing.FirstSeenAt,
	}
}

// CredentialRequestedEvent — контракт события credential.requested (v1)
type CredentialRequestedEvent struct {
	RequestID string    `json:"request_id"`
	SessionID string    `json:"session_id"`
	Hint      string    `json:"hint,omitempty"`
	IssuedAt  time.Time `json:"issued_at"`
}

// CredentialAnsweredEvent — контракт события credential.answered (v1)
type CredentialAnsweredEvent struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
}
