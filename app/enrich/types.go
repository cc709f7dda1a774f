package enrich

import (
	"context"
	"errors"
)

// ErrContentTooShort marks a scrape whose main content is below the usable minimum.
var ErrContentTooShort = errors.New("scraped content too short")

type ScrapeResult struct {
	Content  string
	ImageURL string
}

type Scraper interface {
	Scrape(ctx context.Context, url string) (*ScrapeResult, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, title, content string) (string, error)
}

// Enrichment is merged into an article before it is stored. Nil fields mean
// nothing usable was produced.
type Enrichment struct {
	Content  *string
	ImageURL *string
}
