package krishafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"

	"github.com/gocolly/colly/v2"
)

type krishaSearchResponse struct {
	Ads []krishaAdItem `json:"ads"`
}

type krishaAdItem struct {
	ID       json.Number `json:"id"`
	URL      string      `json:"url"`
	Title    string      `json:"title"`
	Text     string      `json:"text"`
	Price    *float64    `json:"price"`
	Rooms    *int        `json:"rooms"`
	City     string      `json:"city"`
	District string      `json:"district"`
	Street   string      `json:"street"`
	Square   *float64    `json:"square"`
	Lat      *float64    `json:"lat"`
	Lng      *float64    `json:"lng"`
}

func (a *KrishaFetcherAdapter) buildSearchURL() (string, error) {
	u, err := url.Parse(a.baseURL)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("deal", "rent")
	if a.city != "" {
		q.Set("city", a.city)
	}
	q.Set("sort", "date-desc")

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Collect реализует port.CollectorPort: забирает свежую страницу выдачи
// и возвращает ее объявления. Дедупликацию уже виденных делает хранилище.
func (a *KrishaFetcherAdapter) Collect(ctx context.Context) ([]domain.Listing, error) {
	// наследует лимиты, но имеет свои собственные обработчики
	collector := a.collector.Clone()

	var fetched []domain.Listing
	var responseErr error

	targetURL, err := a.buildSearchURL()
	if err != nil {
		return nil, fmt.Errorf("krisha adapter: failed to build search URL: %w", err)
	}

	collector.OnResponse(func(r *colly.Response) {
		var data krishaSearchResponse
		if jsonErr := json.Unmarshal(r.Body, &data); jsonErr != nil {
			responseErr = fmt.Errorf("krisha adapter: failed to parse JSON from %s: %w", r.Request.URL.String(), jsonErr)
			return
		}

		for _, ad := range data.Ads {
			listing, mapErr := mapAdToListing(ad)
			if mapErr != nil {
				// одно кривое объявление не должно ронять страницу
				continue
			}
			fetched = append(fetched, listing)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("krisha adapter: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, domain.ErrSourceUnavailable)
	})

	if visitErr := collector.Visit(targetURL); visitErr != nil {
		return nil, fmt.Errorf("krisha adapter: failed to visit URL %s: %w", targetURL, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, responseErr
	}
	return fetched, nil
}
