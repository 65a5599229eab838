package rabbitmq

import "time"

// enrichmentDTO — вложенный AI-анализ события listing.ingested
type enrichmentDTO struct {
	Summary string `json:"summary,omitempty"`
}

// ListingIngestedEvent — контракт события listing.ingested (v1),
// зеркало DTO scraper-service
type ListingIngestedEvent struct {
	ListingID   string         `json:"listing_id"`
	Source      string         `json:"source"`
	ExternalID  string         `json:"external_id"`
	Change      string         `json:"change"`
	URL         string         `json:"url,omitempty"`
	Price       *float64       `json:"price,omitempty"`
	Rooms       *int           `json:"rooms,omitempty"`
	City        string         `json:"city,omitempty"`
	District    string         `json:"district,omitempty"`
	Street      string         `json:"street,omitempty"`
	Square      *float64       `json:"square,omitempty"`
	RentalType  string         `json:"rental_type,omitempty"`
	RawText     string         `json:"raw_text,omitempty"`
	Enrichment  *enrichmentDTO `json:"enrichment,omitempty"`
	FirstSeenAt time.Time      `json:"first_seen_at"`
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
