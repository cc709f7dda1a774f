package enrich

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ReadabilityScraper fetches the page itself and extracts the main text locally.
type ReadabilityScraper struct {
	httpClient *http.Client
	userAgent  string
}

var _ Scraper = (*ReadabilityScraper)(nil)

func NewReadabilityScraper(httpClient *http.Client, userAgent string) *ReadabilityScraper {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &ReadabilityScraper{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

func (s *ReadabilityScraper) Scrape(ctx context.Context, pageURL string) (*ScrapeResult, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	data, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	result := &ScrapeResult{
		Content:  strings.TrimSpace(article.TextContent),
		ImageURL: cmp.Or(openGraphImage(data), article.Image),
	}

	slog.Debug("Content extracted successfully",
		"url", pageURL,
		"title", article.Title,
		"content_length", len(result.Content))

	return result, nil
}

func (s *ReadabilityScraper) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}
	return data, nil
}

func openGraphImage(data []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	for _, selector := range []string{`meta[property="og:image"]`, `meta[name="twitter:image"]`} {
		if content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	return ""
}
