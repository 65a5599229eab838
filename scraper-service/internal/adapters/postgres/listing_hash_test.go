package postgres

import (
	"testing"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func baseListing() domain.Listing {
	return domain.Listing{
		Source:     "krisha",
		ExternalID: "100500",
		Price:      floatPtr(250000),
		Rooms:      intPtr(2),
		City:       "Алматы",
		Square:     floatPtr(54.0),
		Latitude:   floatPtr(43.238949),
		Longitude:  floatPtr(76.889709),
		RawText:    "Сдам 2-комнатную квартиру в центре",
	}
}

func hashOf(t *testing.T, listing domain.Listing) string {
	t.Helper()
	return calculateContentHash(buildListingHashPayload(listing))
}

func TestContentHashStable(t *testing.T) {
	a := hashOf(t, baseListing())
	b := hashOf(t, baseListing())
	if a != b {
		t.Errorf("got different hashes for identical listings: %s vs %s", a, b)
	}
}

func TestContentHashChangesOnPrice(t *testing.T) {
	original := hashOf(t, baseListing())

	changed := baseListing()
	changed.Price = floatPtr(260000)

	if got := hashOf(t, changed); got == original {
		t.Error("price change must change the content hash")
	}
}

func TestContentHashIgnoresAreaJitter(t *testing.T) {
	original := hashOf(t, baseListing())

	// 54.0 и 54.9 попадают в одну корзину площади
	jittered := baseListing()
	jittered.Square = floatPtr(54.9)

	if got := hashOf(t, jittered); got != original {
		t.Error("area jitter inside one bucket must not change the hash")
	}
}

func TestContentHashIgnoresCoordinateJitter(t *testing.T) {
	original := hashOf(t, baseListing())

	// Сдвиг в пределах одной ячейки геохэша точности 5 (~5 км)
	jittered := baseListing()
	jittered.Latitude = floatPtr(43.239100)
	jittered.Longitude = floatPtr(76.889800)

	if got := hashOf(t, jittered); got != original {
		t.Error("coordinate jitter inside one geohash cell must not change the hash")
	}
}

func TestContentHashNormalizesText(t *testing.T) {
	original := hashOf(t, baseListing())

	reformatted := baseListing()
	reformatted.RawText = "  СДАМ   2-комнатную\nквартиру в центре "

	if got := hashOf(t, reformatted); got != original {
		t.Error("case and whitespace differences must not change the hash")
	}
}

func TestContentHashHandlesNilFields(t *testing.T) {
	sparse := domain.Listing{
		Source:     "community:rentalmaty",
		ExternalID: "msg-42",
		RawText:    "ищу соседа в 3-комнатную",
	}

	a := hashOf(t, sparse)
	b := hashOf(t, sparse)
	if a != b {
		t.Errorf("got different hashes for identical sparse listings: %s vs %s", a, b)
	}

	withPrice := sparse
	withPrice.Price = floatPtr(90000)
	if hashOf(t, withPrice) == a {
		t.Error("adding a price must change the hash")
	}
}
