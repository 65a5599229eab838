package krishafetcher

import (
	"encoding/json"
	"testing"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

func TestMapAdToListing(t *testing.T) {
	price := 250000.0
	rooms := 2
	ad := krishaAdItem{
		ID:       json.Number("100500"),
		URL:      "https://krisha.kz/a/show/100500",
		Title:    "2-комнатная квартира, 54 м²",
		Text:     "Сдается надолго, рядом метро",
		Price:    &price,
		Rooms:    &rooms,
		City:     "Алматы",
		District: "Бостандыкский р-н",
	}

	listing, err := mapAdToListing(ad)
	if err != nil {
		t.Fatalf("mapAdToListing returned error: %v", err)
	}

	if listing.Source != "krisha" {
		t.Errorf("got source %q, want %q", listing.Source, "krisha")
	}
	if listing.ExternalID != "100500" {
		t.Errorf("got external_id %q, want %q", listing.ExternalID, "100500")
	}
	if listing.RentalType != domain.RentalTypeFullApartment {
		t.Errorf("got rental_type %q, want %q", listing.RentalType, domain.RentalTypeFullApartment)
	}
	want := "2-комнатная квартира, 54 м²\nСдается надолго, рядом метро"
	if listing.RawText != want {
		t.Errorf("got raw_text %q, want %q", listing.RawText, want)
	}
}

func TestMapAdToListingRejectsMissingID(t *testing.T) {
	if _, err := mapAdToListing(krishaAdItem{Title: "без идентификатора"}); err == nil {
		t.Error("expected error for ad without id")
	}
}

func TestParseSearchResponse(t *testing.T) {
	body := `{"ads": [
		{"id": 1, "url": "https://krisha.kz/a/show/1", "title": "1-комнатная", "price": 180000, "rooms": 1, "city": "Алматы"},
		{"id": 2, "url": "https://krisha.kz/a/show/2", "title": "3-комнатная", "price": 450000, "rooms": 3, "city": "Алматы"}
	]}`

	var data krishaSearchResponse
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		t.Fatalf("failed to parse search response: %v", err)
	}
	if len(data.Ads) != 2 {
		t.Fatalf("got %d ads, want 2", len(data.Ads))
	}
	if data.Ads[0].ID.String() != "1" {
		t.Errorf("got id %q, want %q", data.Ads[0].ID.String(), "1")
	}
	if data.Ads[1].Price == nil || *data.Ads[1].Price != 450000 {
		t.Errorf("got price %v, want 450000", data.Ads[1].Price)
	}
}
