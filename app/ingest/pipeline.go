package ingest

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/rss-estate/app/article"
	"github.com/lysyi3m/rss-estate/app/enrich"
	"github.com/lysyi3m/rss-estate/app/feed"
)

// Store is the persisted-article collaborator. The pipeline never reads
// back or modifies what it inserted.
type Store interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, sourceHash string) (bool, error)
	Insert(ctx context.Context, draft article.Draft) (*article.Article, error)
}

type Fetcher interface {
	Run(ctx context.Context, source feed.Source) (*feed.RawDocument, error)
}

// Publisher receives every newly inserted article.
type Publisher interface {
	Publish(ctx context.Context, a *article.Article) error
}

type Options struct {
	ItemCap int
}

type Pipeline struct {
	registry  *feed.Registry
	fetcher   Fetcher
	parser    *feed.Parser
	filterer  *feed.Filterer
	enricher  *enrich.Enricher
	store     Store
	publisher Publisher
	now       func() time.Time
}

// NewPipeline wires the stages. enricher and publisher may be nil.
func NewPipeline(registry *feed.Registry, fetcher Fetcher, store Store, enricher *enrich.Enricher, publisher Publisher, opts Options) *Pipeline {
	return &Pipeline{
		registry:  registry,
		fetcher:   fetcher,
		parser:    feed.NewParser(opts.ItemCap),
		filterer:  feed.NewFilterer(registry),
		enricher:  enricher,
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

type runState struct {
	summary       Summary
	enrichEnabled bool
}

// Run executes one full pass over the registry. It never panics and always
// returns a summary; only an unreachable store or an aborted context fails
// the run as a whole.
func (p *Pipeline) Run(ctx context.Context) (summary Summary) {
	startedAt := p.now()
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Sync run panicked", "panic", r)
			summary = Failure(fmt.Errorf("sync run panicked: %v", r))
		}
		summary.StartedAt = startedAt
		summary.FinishedAt = p.now()
	}()

	if err := p.store.Ping(ctx); err != nil {
		slog.Error("Store unavailable", "error", err)
		return Failure(fmt.Errorf("store unavailable: %w", err))
	}

	state := &runState{
		summary:       Summary{Success: true},
		enrichEnabled: p.enricher.Enabled(),
	}
	if !state.enrichEnabled {
		slog.Info("Enrichment disabled for this run")
	}

	for _, source := range p.registry.Sources {
		if err := p.syncFeed(ctx, source, state); err != nil {
			slog.Error("Sync run aborted", "feed", source.Name, "error", err,
				"synced", state.summary.Synced, "skipped", state.summary.Skipped)
			return Failure(fmt.Errorf("sync run aborted: %w", err))
		}
	}

	return state.summary
}

// syncFeed processes one feed. Only context cancellation is returned; every
// other failure is recorded or logged and the feed is left behind.
func (p *Pipeline) syncFeed(ctx context.Context, source feed.Source, state *runState) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	startedAt := time.Now()
	doc, err := p.fetcher.Run(ctx, source)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var fetchErr *feed.FetchError
		if errors.As(err, &fetchErr) {
			slog.Warn("Feed skipped", "feed", source.Name, "status", fetchErr.Status, "error", fetchErr.Message)
		} else {
			slog.Warn("Feed skipped", "feed", source.Name, "error", err)
		}
		return nil
	}

	var total, synced, skipped int
	items := p.filterer.Run(source, p.parser.Run(doc.Body))
	for item := range items {
		total++
		outcome, err := p.syncItem(ctx, item, state)
		if err != nil {
			return err
		}
		switch outcome {
		case outcomeSynced:
			synced++
		case outcomeSkipped:
			skipped++
		}
	}

	slog.Info("Feed synced",
		"feed", source.Name,
		"duration", time.Since(startedAt),
		"relevant", total,
		"synced", synced,
		"skipped", skipped)

	return nil
}

type outcome int

const (
	outcomeDropped outcome = iota
	outcomeSkipped
	outcomeSynced
	outcomeFailed
)

func (p *Pipeline) syncItem(ctx context.Context, item feed.RelevantItem, state *runState) (outcome, error) {
	if item.Link == "" {
		slog.Debug("Item without link dropped", "feed", item.Source.Name, "title", item.Title)
		return outcomeDropped, nil
	}

	hash := article.Fingerprint(item.Link)
	exists, err := p.store.Exists(ctx, hash)
	if err != nil {
		if ctx.Err() != nil {
			return outcomeFailed, ctx.Err()
		}
		p.recordError(state, item, fmt.Errorf("failed to check duplicate: %w", err))
		return outcomeFailed, nil
	}
	if exists {
		state.summary.Skipped++
		return outcomeSkipped, nil
	}

	var enrichment enrich.Enrichment
	if state.enrichEnabled {
		enrichment, err = p.enricher.Run(ctx, item.Title, item.Link)
		if err != nil {
			return outcomeFailed, err
		}
		if enrichment.Content != nil {
			state.summary.Enriched++
		}
	}

	draft := p.buildDraft(item, hash, enrichment)
	created, err := p.store.Insert(ctx, draft)
	if err != nil {
		if ctx.Err() != nil {
			return outcomeFailed, ctx.Err()
		}
		p.recordError(state, item, err)
		return outcomeFailed, nil
	}

	state.summary.Synced++
	p.publish(ctx, created)
	return outcomeSynced, nil
}

func (p *Pipeline) buildDraft(item feed.RelevantItem, hash string, enrichment enrich.Enrichment) article.Draft {
	draft := article.Draft{
		Title:              cmp.Or(item.Title, item.Link),
		Excerpt:            item.Description,
		SourceName:         item.Source.Name,
		SourceURL:          item.Link,
		SourceHash:         hash,
		Content:            enrichment.Content,
		Category:           item.Category,
		PublishedAt:        item.PublishedOr(p.now()),
		ReadingTimeMinutes: article.ReadingTime(enrichment.Content),
	}

	if item.ImageURL != "" {
		image := item.ImageURL
		draft.ImageURL = &image
	} else {
		draft.ImageURL = enrichment.ImageURL
	}

	return draft
}

func (p *Pipeline) recordError(state *runState, item feed.RelevantItem, err error) {
	slog.Error("Failed to insert article", "feed", item.Source.Name, "url", item.Link, "error", err)
	state.summary.Errors = append(state.summary.Errors, fmt.Sprintf("%s: %v", cmp.Or(item.Title, item.Link), err))
}

func (p *Pipeline) publish(ctx context.Context, created *article.Article) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, created); err != nil {
		slog.Warn("Failed to publish article event", "url", created.SourceURL, "error", err)
	}
}
