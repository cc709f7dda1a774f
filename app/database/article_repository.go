package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/lysyi3m/rss-estate/app/article"
)

const articlesTable = "articles"

var articleColumns = []string{
	"id", "title", "excerpt", "source_name", "source_url", "source_hash",
	"image_url", "content", "category", "article_type", "status",
	"published_at", "reading_time_minutes", "created_at",
}

// ErrNotFound is returned by lookups that match no article.
var ErrNotFound = errors.New("article not found")

// Repository stores pipeline articles in SQLite. Writes are insert-only.
type Repository struct {
	db  *DB
	now func() time.Time
}

var _ ArticleRepository = (*Repository)(nil)

func NewRepository(db *DB) *Repository {
	return &Repository{db: db, now: time.Now}
}

func (r *Repository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Exists reports whether an article with the given fingerprint is stored.
func (r *Repository) Exists(ctx context.Context, sourceHash string) (bool, error) {
	query, args, err := sq.Select("1").
		From(articlesTable).
		Where(sq.Eq{"source_hash": sourceHash}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build query: %w", err)
	}

	var found int
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return true, nil
}

// Insert writes a new article. A second insert of the same fingerprint fails
// on the unique index.
func (r *Repository) Insert(ctx context.Context, draft article.Draft) (*article.Article, error) {
	created := article.Article{
		ID:                 uuid.NewString(),
		Title:              draft.Title,
		Excerpt:            draft.Excerpt,
		SourceName:         draft.SourceName,
		SourceURL:          draft.SourceURL,
		SourceHash:         draft.SourceHash,
		ImageURL:           draft.ImageURL,
		Content:            draft.Content,
		Category:           draft.Category,
		ArticleType:        article.TypeHeadline,
		Status:             article.StatusPublished,
		PublishedAt:        draft.PublishedAt.UTC(),
		ReadingTimeMinutes: draft.ReadingTimeMinutes,
		CreatedAt:          r.now().UTC(),
	}

	query, args, err := sq.Insert(articlesTable).
		Columns(articleColumns...).
		Values(
			created.ID,
			created.Title,
			created.Excerpt,
			created.SourceName,
			created.SourceURL,
			created.SourceHash,
			created.ImageURL,
			created.Content,
			created.Category.String(),
			created.ArticleType,
			created.Status,
			created.PublishedAt.Format(time.RFC3339Nano),
			created.ReadingTimeMinutes,
			created.CreatedAt.Format(time.RFC3339Nano),
		).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return &created, nil
}

func (r *Repository) GetBySourceHash(ctx context.Context, sourceHash string) (*article.Article, error) {
	query, args, err := sq.Select(articleColumns...).
		From(articlesTable).
		Where(sq.Eq{"source_hash": sourceHash}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var (
		a                      article.Article
		imageURL, content      sql.NullString
		category               string
		publishedAt, createdAt string
	)
	err = r.db.QueryRowContext(ctx, query, args...).Scan(
		&a.ID, &a.Title, &a.Excerpt, &a.SourceName, &a.SourceURL, &a.SourceHash,
		&imageURL, &content, &category, &a.ArticleType, &a.Status,
		&publishedAt, &a.ReadingTimeMinutes, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	if content.Valid {
		a.Content = &content.String
	}
	if a.Category, err = article.ParseCategory(category); err != nil {
		return nil, err
	}
	if a.PublishedAt, err = time.Parse(time.RFC3339Nano, publishedAt); err != nil {
		return nil, fmt.Errorf("failed to parse published_at: %w", err)
	}
	if a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &a, nil
}

func (r *Repository) CountArticles(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From(articlesTable).ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// CountByCategory returns a count for every category, including empty ones.
func (r *Repository) CountByCategory(ctx context.Context) (map[article.Category]int, error) {
	query, args, err := sq.Select("category", "COUNT(*)").
		From(articlesTable).
		GroupBy("category").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count by category: %w", err)
	}
	defer rows.Close()

	counts := make(map[article.Category]int, len(article.Categories))
	for _, c := range article.Categories {
		counts[c] = 0
	}

	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		category, err := article.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		counts[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category counts: %w", err)
	}

	return counts, nil
}
