package krishafetcher

import (
	"fmt"
	"strings"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// mapAdToListing превращает элемент выдачи API в доменное объявление
func mapAdToListing(ad krishaAdItem) (domain.Listing, error) {
	externalID := ad.ID.String()
	if externalID == "" {
		return domain.Listing{}, fmt.Errorf("ad has no id")
	}

	rawText := ad.Title
	if ad.Text != "" {
		rawText = strings.TrimSpace(ad.Title + "\n" + ad.Text)
	}

	return domain.Listing{
		Source:     "krisha",
		ExternalID: externalID,
		URL:        ad.URL,
		Price:      ad.Price,
		Rooms:      ad.Rooms,
		City:       ad.City,
		District:   ad.District,
		Street:     ad.Street,
		Square:     ad.Square,
		Latitude:   ad.Lat,
		Longitude:  ad.Lng,
		RentalType: domain.RentalTypeFullApartment,
		RawText:    rawText,
	}, nil
}
