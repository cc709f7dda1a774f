package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lysyi3m/rss-estate/app/api"
	"github.com/lysyi3m/rss-estate/app/cfg"
	"github.com/lysyi3m/rss-estate/app/database"
	"github.com/lysyi3m/rss-estate/app/enrich"
	"github.com/lysyi3m/rss-estate/app/feed"
	"github.com/lysyi3m/rss-estate/app/ingest"
	"github.com/lysyi3m/rss-estate/app/publish"
	"github.com/lysyi3m/rss-estate/app/tasks"
)

func main() {
	os.Exit(run())
}

func run() int {
	config, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if config == nil {
		return 0
	}

	setupLogger(config.Debug)

	slog.Info("Starting rss-estate", "version", config.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if dir := filepath.Dir(config.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			slog.Error("Failed to create data directory", "path", dir, "error", err)
			return 1
		}
	}

	db, err := database.Open(ctx, config.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", config.DBPath, "error", err)
		return 1
	}
	defer db.Close()

	registry, err := feed.LoadRegistry(config.FeedsFile)
	if err != nil {
		slog.Error("Failed to load feed registry", "path", config.FeedsFile, "error", err)
		return 1
	}
	slog.Info("Feed registry loaded", "feeds", len(registry.Sources))

	httpClient := &http.Client{Timeout: feed.DefaultFetchTimeout}

	scraper, err := buildScraper(config, httpClient)
	if err != nil {
		slog.Error("Failed to configure scraper", "provider", config.Scraper, "error", err)
		return 1
	}

	summarizer, closeSummarizer, err := buildSummarizer(ctx, config)
	if err != nil {
		slog.Error("Failed to configure summarizer", "provider", config.Summarizer, "error", err)
		return 1
	}
	defer closeSummarizer()

	enricher := enrich.NewEnricher(scraper, summarizer, enrich.Options{
		ScrapeDelay:      config.ScrapeDelay,
		SummarizeDelay:   config.SummarizeDelay,
		MinContentLength: enrich.DefaultMinContentLength,
		MaxPromptChars:   enrich.DefaultMaxPromptChars,
	})

	var publisher ingest.Publisher
	if len(config.KafkaBrokers) > 0 {
		kafkaPublisher := publish.NewKafkaPublisher(config.KafkaBrokers, config.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		slog.Info("Publishing article events", "brokers", config.KafkaBrokers, "topic", config.KafkaTopic)
	}

	repo := database.NewRepository(db)
	pipeline := ingest.NewPipeline(
		registry,
		feed.NewFetcher(httpClient, config.UserAgent),
		repo,
		enricher,
		publisher,
		ingest.Options{ItemCap: config.ItemCap},
	)
	runner := tasks.NewRunner(pipeline)

	if config.Once {
		return runOnce(ctx, runner)
	}

	if config.SyncInterval > 0 {
		scheduler := tasks.NewScheduler(runner, config.SyncInterval)
		scheduler.Start()
		defer scheduler.Stop()
	}

	handler := api.NewHandler(runner, repo, config.Version)
	server := api.NewServer(handler, api.ServerOptions{
		Version:   config.Version,
		SyncRate:  config.SyncRate,
		SyncBurst: config.SyncBurst,
	})

	// Sync runs enrich every new article, so writes may take minutes.
	httpServer := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", config.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		exitCode = 1
	}

	slog.Info("Server stopped")
	return exitCode
}

func runOnce(ctx context.Context, runner *tasks.Runner) int {
	summary, err := runner.Run(ctx, tasks.TriggerCLI)
	if err != nil {
		slog.Error("Sync not started", "error", err)
		return 1
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		slog.Error("Failed to encode summary", "error", err)
		return 1
	}
	fmt.Println(string(out))

	if !summary.Success {
		return 1
	}
	return 0
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

func buildScraper(config *cfg.Cfg, httpClient *http.Client) (enrich.Scraper, error) {
	switch config.Scraper {
	case "firecrawl":
		if config.FirecrawlAPIKey == "" {
			slog.Info("Firecrawl API key not set, scraping disabled")
			return nil, nil
		}
		scraper, err := enrich.NewFirecrawlScraper(config.FirecrawlAPIKey, config.FirecrawlBaseURL, httpClient)
		if err != nil {
			return nil, err
		}
		return scraper, nil
	case "readability":
		return enrich.NewReadabilityScraper(httpClient, config.UserAgent), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown scraper %q", config.Scraper)
	}
}

func buildSummarizer(ctx context.Context, config *cfg.Cfg) (enrich.Summarizer, func(), error) {
	noop := func() {}

	switch config.Summarizer {
	case "openai":
		if config.OpenAIAPIKey == "" {
			slog.Info("OpenAI API key not set, summaries disabled")
			return nil, noop, nil
		}
		summarizer, err := enrich.NewOpenAISummarizer(config.OpenAIAPIKey, config.OpenAIBaseURL, config.OpenAIModel)
		if err != nil {
			return nil, noop, err
		}
		return summarizer, noop, nil
	case "gemini":
		if config.GeminiAPIKey == "" {
			slog.Info("Gemini API key not set, summaries disabled")
			return nil, noop, nil
		}
		summarizer, err := enrich.NewGeminiSummarizer(ctx, config.GeminiAPIKey, config.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return summarizer, func() { summarizer.Close() }, nil
	case "none", "":
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown summarizer %q", config.Summarizer)
	}
}
