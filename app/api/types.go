package api

import (
	"context"

	"github.com/lysyi3m/rss-estate/app/article"
	"github.com/lysyi3m/rss-estate/app/database"
	"github.com/lysyi3m/rss-estate/app/tasks"
)

// StatsReader is the read side the API needs from the article store.
type StatsReader interface {
	CountArticles(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[article.Category]int, error)
}

var _ StatsReader = (*database.Repository)(nil)

type Handler struct {
	runner  tasks.SyncRunner
	stats   StatsReader
	version string
}
