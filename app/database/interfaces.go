package database

import (
	"context"

	"github.com/lysyi3m/rss-estate/app/article"
)

type ArticleRepository interface {
	Ping(ctx context.Context) error

	Exists(ctx context.Context, sourceHash string) (bool, error)
	Insert(ctx context.Context, draft article.Draft) (*article.Article, error)

	GetBySourceHash(ctx context.Context, sourceHash string) (*article.Article, error)
	CountArticles(ctx context.Context) (int, error)
	CountByCategory(ctx context.Context) (map[article.Category]int, error)
}
