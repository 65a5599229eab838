package krishafetcher

import (
	"log"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// KrishaFetcherAdapter отвечает за все взаимодействия с JSON-API krisha.kz.
// Реализует port.CollectorPort.
type KrishaFetcherAdapter struct {
	// один родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	baseURL   string
	city      string
	interval  time.Duration
}

// NewKrishaFetcherAdapter - конструктор
func NewKrishaFetcherAdapter(baseURL string, city string, interval time.Duration) (*KrishaFetcherAdapter, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	c := colly.NewCollector(colly.AllowedDomains(parsed.Host), colly.AllowURLRevisit())

	err = c.Limit(&colly.LimitRule{
		DomainGlob:  parsed.Host,
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, err
	}

	extensions.RandomUserAgent(c) // На каждый запрос будет подставлен User-Agent реального браузера
	extensions.Referer(c)         // Автоматически подставляет заголовок Referer, имитируя навигацию

	c.OnRequest(func(r *colly.Request) {
		log.Printf("KrishaFetcherAdapter: Making request to %s", r.URL.String())
	})

	return &KrishaFetcherAdapter{
		collector: c,
		baseURL:   baseURL,
		city:      city,
		interval:  interval,
	}, nil
}

func (a *KrishaFetcherAdapter) Name() string {
	return "krisha"
}

func (a *KrishaFetcherAdapter) Interval() time.Duration {
	return a.interval
}
