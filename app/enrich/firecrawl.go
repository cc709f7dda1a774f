package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultFirecrawlBaseURL = "https://api.firecrawl.dev"

type firecrawlRequest struct {
	URL             string   `json:"url"`
	Formats         []string `json:"formats"`
	OnlyMainContent bool     `json:"onlyMainContent"`
}

type firecrawlResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		Markdown string `json:"markdown"`
		Metadata struct {
			OGImage string `json:"ogImage"`
		} `json:"metadata"`
	} `json:"data"`
}

// FirecrawlScraper extracts main page content through the Firecrawl scrape API.
type FirecrawlScraper struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ Scraper = (*FirecrawlScraper)(nil)

func NewFirecrawlScraper(apiKey, baseURL string, httpClient *http.Client) (*FirecrawlScraper, error) {
	if apiKey == "" {
		return nil, errors.New("firecrawl API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultFirecrawlBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &FirecrawlScraper{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}, nil
}

func (s *FirecrawlScraper) Scrape(ctx context.Context, url string) (*ScrapeResult, error) {
	payload, err := json.Marshal(firecrawlRequest{
		URL:             url,
		Formats:         []string{"markdown"},
		OnlyMainContent: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/scrape", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var decoded firecrawlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !decoded.Success {
		return nil, fmt.Errorf("scrape unsuccessful: %s", decoded.Error)
	}

	return &ScrapeResult{
		Content:  decoded.Data.Markdown,
		ImageURL: decoded.Data.Metadata.OGImage,
	}, nil
}
