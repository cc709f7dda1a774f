package cfg

import "time"

type Cfg struct {
	// Storage
	DBPath    string
	FeedsFile string

	// HTTP trigger
	Port      string
	SyncRate  float64
	SyncBurst int

	// Pipeline
	Once         bool
	SyncInterval time.Duration
	ItemCap      int
	UserAgent    string

	// Enrichment
	Scraper          string
	FirecrawlAPIKey  string
	FirecrawlBaseURL string
	Summarizer       string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string
	ScrapeDelay      time.Duration
	SummarizeDelay   time.Duration

	// Event fan-out
	KafkaBrokers []string
	KafkaTopic   string

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}
