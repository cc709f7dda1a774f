package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	DefaultFetchTimeout = 30 * time.Second

	acceptHeader = "application/rss+xml, application/xml, text/xml, */*"
)

// FetchError reports a feed that could not be retrieved. Status is zero when
// the request never produced a response.
type FetchError struct {
	Status  int
	Message string
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("fetch failed: %s", e.Message)
	}
	return fmt.Sprintf("fetch failed: HTTP %d %s", e.Status, e.Message)
}

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
}

func NewFetcher(httpClient *http.Client, userAgent string) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultFetchTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// Run retrieves the raw document of one feed. Every failure is returned as a
// *FetchError.
func (f *Fetcher) Run(ctx context.Context, source Source) (*RawDocument, error) {
	startedAt := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, &FetchError{Message: err.Error()}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		slog.Warn("Feed fetch failed", "feed", source.Name, "error", err, "elapsed", time.Since(startedAt))
		return nil, &FetchError{Message: err.Error()}
	}
	defer resp.Body.Close()

	slog.Info("Feed fetched", "feed", source.Name, "status", resp.StatusCode, "elapsed", time.Since(startedAt))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", err)}
	}

	return &RawDocument{
		Source:    source,
		Body:      string(body),
		Status:    resp.StatusCode,
		FetchedAt: startedAt,
	}, nil
}
