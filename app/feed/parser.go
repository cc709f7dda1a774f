package feed

import (
	"cmp"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

const DefaultItemCap = 20

// Parser turns a raw feed body into candidate items. Only the first itemCap
// items of a document are considered.
type Parser struct {
	gofeedParser *gofeed.Parser
	itemCap      int
}

func NewParser(itemCap int) *Parser {
	if itemCap <= 0 {
		itemCap = DefaultItemCap
	}
	return &Parser{
		gofeedParser: gofeed.NewParser(),
		itemCap:      itemCap,
	}
}

// Run returns a lazy sequence over the document's items. Parsing starts on
// the first pull; items without both a title and a link are dropped.
func (p *Parser) Run(body string) iter.Seq[ParsedItem] {
	return func(yield func(ParsedItem) bool) {
		for _, candidate := range p.candidates(body) {
			item, ok := normalizeItem(candidate)
			if !ok {
				continue
			}
			if !yield(item) {
				return
			}
		}
	}
}

func (p *Parser) candidates(body string) []ParsedItem {
	parsed, err := p.gofeedParser.ParseString(body)
	if err != nil {
		slog.Debug("Falling back to tolerant scanner", "error", err)
		return scanItems(body, p.itemCap)
	}

	items := parsed.Items
	if len(items) > p.itemCap {
		items = items[:p.itemCap]
	}

	candidates := make([]ParsedItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		candidates = append(candidates, fromGofeedItem(item))
	}
	return candidates
}

func fromGofeedItem(item *gofeed.Item) ParsedItem {
	candidate := ParsedItem{
		Title:       item.Title,
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
		Published:   cmp.Or(item.Published, item.Updated),
		PublishedAt: cmp.Or(item.PublishedParsed, item.UpdatedParsed),
	}

	candidate.ImageURL = cmp.Or(
		mediaURL(item.Extensions, "content"),
		enclosureImage(item.Enclosures),
		mediaURL(item.Extensions, "thumbnail"),
	)
	if candidate.ImageURL == "" && item.Image != nil {
		candidate.ImageURL = item.Image.URL
	}

	return candidate
}

// mediaURL finds the first media:<name> url, including ones nested in media:group.
func mediaURL(extensions ext.Extensions, name string) string {
	media, ok := extensions["media"]
	if !ok {
		return ""
	}
	if url := firstExtensionURL(media[name]); url != "" {
		return url
	}
	for _, group := range media["group"] {
		if url := firstExtensionURL(group.Children[name]); url != "" {
			return url
		}
	}
	return ""
}

func firstExtensionURL(elements []ext.Extension) string {
	for _, element := range elements {
		if url := strings.TrimSpace(element.Attrs["url"]); url != "" {
			return url
		}
	}
	return ""
}

func enclosureImage(enclosures []*gofeed.Enclosure) string {
	for _, enclosure := range enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}
	return ""
}

// normalizeItem cleans text fields, resolves the image and parses the date.
func normalizeItem(item ParsedItem) (ParsedItem, bool) {
	item.Title = cleanText(item.Title)
	item.Link = strings.TrimSpace(entityReplacer.Replace(item.Link))
	if item.Title == "" && item.Link == "" {
		return ParsedItem{}, false
	}

	rawDescription := item.Description
	item.Description = cleanText(item.Description)
	item.Published = strings.TrimSpace(item.Published)

	if item.ImageURL == "" {
		item.ImageURL = cmp.Or(firstImage(rawDescription), firstImage(item.Content))
	}
	item.ImageURL = absoluteURL(item.Link, item.ImageURL)

	if item.PublishedAt == nil && item.Published != "" {
		if published, err := dateparse.ParseAny(item.Published); err == nil {
			item.PublishedAt = &published
		}
	}
	if item.PublishedAt != nil {
		utc := item.PublishedAt.UTC()
		item.PublishedAt = &utc
	}

	return item, true
}

// PublishedOr returns the parsed publish time, or fallback when absent.
func (i ParsedItem) PublishedOr(fallback time.Time) time.Time {
	if i.PublishedAt == nil {
		return fallback
	}
	return *i.PublishedAt
}
