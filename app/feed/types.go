package feed

import (
	"time"

	"github.com/lysyi3m/rss-estate/app/article"
)

// Registry types

type Source struct {
	Name     string   `yaml:"name"`
	URL      string   `yaml:"url"`
	Keywords []string `yaml:"keywords"`
}

type Registry struct {
	Sources        []Source `yaml:"feeds"`
	GlobalKeywords []string `yaml:"global_keywords"`
}

// Pipeline stage types

// RawDocument is an unparsed feed body as returned by the Fetcher.
type RawDocument struct {
	Source    Source
	Body      string
	Status    int
	FetchedAt time.Time
}

// ParsedItem is one candidate extracted from a RawDocument.
type ParsedItem struct {
	Title       string
	Link        string
	Description string
	Content     string // optional full-content field (content:encoded / atom content)
	Published   string // raw publish date as found in the document
	PublishedAt *time.Time
	ImageURL    string
}

// RelevantItem is a ParsedItem that passed the relevance filter and has been categorized.
type RelevantItem struct {
	ParsedItem
	Source   Source
	Category article.Category
}
