package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type mockScraper struct {
	result *ScrapeResult
	err    error
	calls  []string
}

func (m *mockScraper) Scrape(ctx context.Context, url string) (*ScrapeResult, error) {
	m.calls = append(m.calls, url)
	if m.err != nil {
		return nil, m.err
	}
	copied := *m.result
	return &copied, nil
}

type mockSummarizer struct {
	summary  string
	err      error
	calls    int
	lastBody string
}

func (m *mockSummarizer) Summarize(ctx context.Context, title, content string) (string, error) {
	m.calls++
	m.lastBody = content
	return m.summary, m.err
}

func testOptions() Options {
	return Options{
		ScrapeDelay:      time.Millisecond,
		SummarizeDelay:   time.Millisecond,
		MinContentLength: DefaultMinContentLength,
		MaxPromptChars:   DefaultMaxPromptChars,
	}
}

func longContent() string {
	return strings.Repeat("Dubai property market analysis. ", 10)
}

func TestEnricher_Enabled(t *testing.T) {
	var nilEnricher *Enricher
	tests := []struct {
		name     string
		enricher *Enricher
		want     bool
	}{
		{"nil enricher", nilEnricher, false},
		{"no scraper", NewEnricher(nil, &mockSummarizer{}, testOptions()), false},
		{"no summarizer", NewEnricher(&mockScraper{}, nil, testOptions()), false},
		{"both configured", NewEnricher(&mockScraper{}, &mockSummarizer{}, testOptions()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.enricher.Enabled(); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEnricher_Success(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: longContent(), ImageURL: "https://img.example.com/og.jpg"}}
	summarizer := &mockSummarizer{summary: "  Investors should note rising yields.  "}
	enricher := NewEnricher(scraper, summarizer, testOptions())

	result, err := enricher.Run(context.Background(), "Title", "https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}

	if result.Content == nil || *result.Content != "Investors should note rising yields." {
		t.Errorf("Expected trimmed summary, got %v", result.Content)
	}
	if result.ImageURL == nil || *result.ImageURL != "https://img.example.com/og.jpg" {
		t.Errorf("Expected og image, got %v", result.ImageURL)
	}
	if len(scraper.calls) != 1 || scraper.calls[0] != "https://example.com/a" {
		t.Errorf("Expected one scrape of the source URL, got %v", scraper.calls)
	}
}

func TestEnricher_ShortContentSkipsSummary(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: "Too short", ImageURL: "https://img.example.com/og.jpg"}}
	summarizer := &mockSummarizer{summary: "unused"}
	enricher := NewEnricher(scraper, summarizer, testOptions())

	result, err := enricher.Run(context.Background(), "Title", "https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}

	if result.Content != nil {
		t.Errorf("Expected nil content, got %q", *result.Content)
	}
	if summarizer.calls != 0 {
		t.Errorf("Expected summarizer not to be called, got %d calls", summarizer.calls)
	}
	if result.ImageURL == nil {
		t.Error("Expected og image to be kept for short content")
	}
}

func TestEnricher_ScrapeFailure(t *testing.T) {
	scraper := &mockScraper{err: errors.New("boom")}
	summarizer := &mockSummarizer{summary: "unused"}
	enricher := NewEnricher(scraper, summarizer, testOptions())

	result, err := enricher.Run(context.Background(), "Title", "https://example.com/a")
	if err != nil {
		t.Fatalf("Expected scrape failure to be absorbed, got: %v", err)
	}
	if result.Content != nil || result.ImageURL != nil {
		t.Errorf("Expected empty enrichment, got %+v", result)
	}
	if summarizer.calls != 0 {
		t.Errorf("Expected summarizer not to be called, got %d", summarizer.calls)
	}
}

func TestEnricher_SummaryFailure(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: longContent()}}
	summarizer := &mockSummarizer{err: errors.New("rate limited")}
	enricher := NewEnricher(scraper, summarizer, testOptions())

	result, err := enricher.Run(context.Background(), "Title", "https://example.com/a")
	if err != nil {
		t.Fatalf("Expected summary failure to be absorbed, got: %v", err)
	}
	if result.Content != nil {
		t.Errorf("Expected nil content, got %q", *result.Content)
	}
	if result.ImageURL != nil {
		t.Errorf("Expected nil image when scrape had none, got %q", *result.ImageURL)
	}
}

func TestEnricher_TruncatesPromptContent(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: strings.Repeat("é", 5000)}}
	summarizer := &mockSummarizer{summary: "ok"}
	opts := testOptions()
	opts.MaxPromptChars = 4000
	enricher := NewEnricher(scraper, summarizer, opts)

	if _, err := enricher.Run(context.Background(), "Title", "https://example.com/a"); err != nil {
		t.Fatal(err)
	}
	if got := len([]rune(summarizer.lastBody)); got != 4000 {
		t.Errorf("Expected 4000 runes sent to summarizer, got %d", got)
	}
}

func TestEnricher_AppliesDelays(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: longContent()}}
	summarizer := &mockSummarizer{summary: "ok"}
	opts := testOptions()
	opts.ScrapeDelay = 30 * time.Millisecond
	opts.SummarizeDelay = 20 * time.Millisecond
	enricher := NewEnricher(scraper, summarizer, opts)

	started := time.Now()
	if _, err := enricher.Run(context.Background(), "Title", "https://example.com/a"); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(started); elapsed < 50*time.Millisecond {
		t.Errorf("Expected at least 50ms of delays, got %v", elapsed)
	}
}

func TestEnricher_CancelledContext(t *testing.T) {
	scraper := &mockScraper{result: &ScrapeResult{Content: longContent()}}
	opts := testOptions()
	opts.ScrapeDelay = time.Hour
	enricher := NewEnricher(scraper, &mockSummarizer{summary: "ok"}, opts)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := enricher.Run(ctx, "Title", "https://example.com/a"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(scraper.calls) != 0 {
		t.Errorf("Expected no scrape after cancellation, got %d", len(scraper.calls))
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(" Emaar launch ", " Body text ")

	for _, want := range []string{"150-200 word", "Title: Emaar launch", "Body text", "Do not use markdown headers"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}
}
