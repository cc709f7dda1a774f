package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	DefaultScrapeDelay      = 600 * time.Millisecond
	DefaultSummarizeDelay   = 300 * time.Millisecond
	DefaultMinContentLength = 100
	DefaultMaxPromptChars   = 4000
)

type Options struct {
	ScrapeDelay      time.Duration
	SummarizeDelay   time.Duration
	MinContentLength int
	MaxPromptChars   int
}

func DefaultOptions() Options {
	return Options{
		ScrapeDelay:      DefaultScrapeDelay,
		SummarizeDelay:   DefaultSummarizeDelay,
		MinContentLength: DefaultMinContentLength,
		MaxPromptChars:   DefaultMaxPromptChars,
	}
}

// Enricher scrapes an article page and asks a language model for an investor
// summary. It is only active when both capabilities are configured.
type Enricher struct {
	scraper    Scraper
	summarizer Summarizer
	opts       Options
}

func NewEnricher(scraper Scraper, summarizer Summarizer, opts Options) *Enricher {
	return &Enricher{
		scraper:    scraper,
		summarizer: summarizer,
		opts:       opts,
	}
}

func (e *Enricher) Enabled() bool {
	return e != nil && e.scraper != nil && e.summarizer != nil
}

// Run enriches one article. Failures degrade to an empty Enrichment; only
// context cancellation is returned as an error.
func (e *Enricher) Run(ctx context.Context, title, sourceURL string) (Enrichment, error) {
	var result Enrichment
	if !e.Enabled() {
		return result, nil
	}

	if err := wait(ctx, e.opts.ScrapeDelay); err != nil {
		return result, err
	}

	scraped, err := e.scrape(ctx, sourceURL)
	if scraped != nil && scraped.ImageURL != "" {
		image := scraped.ImageURL
		result.ImageURL = &image
	}
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Warn("Scrape skipped", "url", sourceURL, "error", err)
		return result, nil
	}

	if err := wait(ctx, e.opts.SummarizeDelay); err != nil {
		return result, err
	}

	content := truncateRunes(scraped.Content, e.opts.MaxPromptChars)
	summary, err := e.summarizer.Summarize(ctx, title, content)
	if err != nil {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		slog.Warn("Summarization failed", "url", sourceURL, "error", err)
		return result, nil
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		slog.Warn("Summarization returned empty text", "url", sourceURL)
		return result, nil
	}

	result.Content = &summary
	slog.Debug("Article enriched", "url", sourceURL, "summary_length", len(summary))
	return result, nil
}

// scrape returns the scrape result even when its content is too short, so
// the caller can still use the image.
func (e *Enricher) scrape(ctx context.Context, sourceURL string) (*ScrapeResult, error) {
	scraped, err := e.scraper.Scrape(ctx, sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to scrape: %w", err)
	}
	if scraped == nil {
		return nil, errors.New("failed to scrape: empty result")
	}

	scraped.Content = strings.TrimSpace(scraped.Content)
	if length := utf8.RuneCountInString(scraped.Content); length < e.opts.MinContentLength {
		return scraped, fmt.Errorf("%w: %d characters", ErrContentTooShort, length)
	}
	return scraped, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
