package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage
	DBPath    string `long:"db-path" env:"DB_PATH" default:"./data/rss-estate.db" description:"SQLite database file"`
	FeedsFile string `long:"feeds-file" env:"FEEDS_FILE" description:"YAML feed registry (built-in registry when empty or missing)"`

	// HTTP trigger
	Port      string  `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SyncRate  float64 `long:"sync-rate" env:"SYNC_RATE" default:"0.1" description:"Allowed POST /sync requests per second per client (0 disables throttling)"`
	SyncBurst int     `long:"sync-burst" env:"SYNC_BURST" default:"1" description:"Burst size for POST /sync throttling"`

	// Pipeline
	Once         bool          `long:"once" env:"ONCE" description:"Run a single sync, print the summary as JSON and exit"`
	SyncInterval time.Duration `long:"sync-interval" env:"SYNC_INTERVAL" default:"0s" description:"Periodic sync interval, e.g. 30m (0 disables the scheduler)"`
	ItemCap      int           `long:"item-cap" env:"ITEM_CAP" default:"20" description:"Maximum items parsed per feed"`
	UserAgent    string        `long:"user-agent" env:"USER_AGENT" description:"User agent for feed requests (desktop browser string when empty)"`

	// Enrichment
	Scraper          string        `long:"scraper" env:"SCRAPER" default:"firecrawl" choice:"firecrawl" choice:"readability" choice:"none" description:"Full-text scraping provider"`
	FirecrawlAPIKey  string        `long:"firecrawl-api-key" env:"FIRECRAWL_API_KEY" description:"Firecrawl API key (enrichment is disabled without it)"`
	FirecrawlBaseURL string        `long:"firecrawl-base-url" env:"FIRECRAWL_BASE_URL" default:"https://api.firecrawl.dev" description:"Firecrawl API base URL"`
	Summarizer       string        `long:"summarizer" env:"SUMMARIZER" default:"openai" choice:"openai" choice:"gemini" choice:"none" description:"Summary provider"`
	OpenAIAPIKey     string        `long:"openai-api-key" env:"OPENAI_API_KEY" description:"OpenAI-compatible API key"`
	OpenAIBaseURL    string        `long:"openai-base-url" env:"OPENAI_BASE_URL" description:"OpenAI-compatible base URL (official API when empty)"`
	OpenAIModel      string        `long:"openai-model" env:"OPENAI_MODEL" default:"gpt-4o-mini" description:"Chat model for summaries"`
	GeminiAPIKey     string        `long:"gemini-api-key" env:"GEMINI_API_KEY" description:"Gemini API key"`
	GeminiModel      string        `long:"gemini-model" env:"GEMINI_MODEL" default:"gemini-1.5-flash" description:"Gemini model for summaries"`
	ScrapeDelay      time.Duration `long:"scrape-delay" env:"SCRAPE_DELAY" default:"600ms" description:"Wait before each scrape request"`
	SummarizeDelay   time.Duration `long:"summarize-delay" env:"SUMMARIZE_DELAY" default:"300ms" description:"Wait before each summary request"`

	// Event fan-out
	KafkaBrokers []string `long:"kafka-broker" env:"KAFKA_BROKERS" env-delim:"," description:"Kafka broker address; publishing is disabled when none are set"`
	KafkaTopic   string   `long:"kafka-topic" env:"KAFKA_TOPIC" default:"real-estate-articles" description:"Kafka topic for article events"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Dubai)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses the process arguments and environment. It returns nil, nil
// when help was requested.
func Load() (*Cfg, error) {
	return LoadArgs(os.Args[1:])
}

func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:           raw.DBPath,
		FeedsFile:        raw.FeedsFile,
		Port:             raw.Port,
		SyncRate:         raw.SyncRate,
		SyncBurst:        raw.SyncBurst,
		Once:             raw.Once,
		SyncInterval:     raw.SyncInterval,
		ItemCap:          raw.ItemCap,
		UserAgent:        raw.UserAgent,
		Scraper:          raw.Scraper,
		FirecrawlAPIKey:  raw.FirecrawlAPIKey,
		FirecrawlBaseURL: raw.FirecrawlBaseURL,
		Summarizer:       raw.Summarizer,
		OpenAIAPIKey:     raw.OpenAIAPIKey,
		OpenAIBaseURL:    raw.OpenAIBaseURL,
		OpenAIModel:      raw.OpenAIModel,
		GeminiAPIKey:     raw.GeminiAPIKey,
		GeminiModel:      raw.GeminiModel,
		ScrapeDelay:      raw.ScrapeDelay,
		SummarizeDelay:   raw.SummarizeDelay,
		KafkaBrokers:     raw.KafkaBrokers,
		KafkaTopic:       raw.KafkaTopic,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.ItemCap <= 0 {
		return fmt.Errorf("item cap must be positive, got %d", cfg.ItemCap)
	}
	if cfg.ScrapeDelay < 0 || cfg.SummarizeDelay < 0 {
		return fmt.Errorf("enrichment delays must not be negative")
	}
	if cfg.SyncInterval < 0 {
		return fmt.Errorf("sync interval must not be negative")
	}
	if cfg.SyncRate < 0 {
		return fmt.Errorf("sync rate must not be negative")
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		loc, err := time.LoadLocation(timezone)
		if err != nil {
			return err
		}
		time.Local = loc
	}
	return nil
}
