package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/open-ssl/krisha/scraper-service/internal/core/domain"
)

// AnalyzerClient — HTTP-клиент внешнего AI-анализатора текста объявлений.
// Реализует port.EnrichmentPort.
type AnalyzerClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewAnalyzerClient(baseURL string, timeout time.Duration) (*AnalyzerClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("analyzer client: base URL is required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AnalyzerClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}, nil
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (c *AnalyzerClient) Analyze(ctx context.Context, rawText string) (*domain.EnrichmentResult, error) {
	payload, err := json.Marshal(analyzeRequest{Text: rawText})
	if err != nil {
		return nil, fmt.Errorf("analyzer client: failed to marshal request: %w", err)
	}

	url := c.baseURL + "/api/v1/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("analyzer client: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyzer client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("analyzer client: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result domain.EnrichmentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("analyzer client: failed to decode response: %w", err)
	}
	return &result, nil
}
