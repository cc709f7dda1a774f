package feed

import (
	"iter"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
)

// Filterer keeps items that mention at least one keyword from the union of
// the source's keywords and the registry's global keywords.
type Filterer struct {
	registry *Registry
	keywords map[string][]string
}

func NewFilterer(registry *Registry) *Filterer {
	return &Filterer{
		registry: registry,
		keywords: make(map[string][]string),
	}
}

// Run filters and categorizes items lazily, preserving their order.
func (f *Filterer) Run(source Source, items iter.Seq[ParsedItem]) iter.Seq[RelevantItem] {
	return func(yield func(RelevantItem) bool) {
		keywords := f.keywordsFor(source)
		for item := range items {
			text := itemText(item)
			if !matchesAny(text, keywords) {
				slog.Debug("Item not relevant", "feed", source.Name, "title", item.Title)
				continue
			}

			relevant := RelevantItem{
				ParsedItem: item,
				Source:     source,
				Category:   Categorize(text),
			}
			if !yield(relevant) {
				return
			}
		}
	}
}

// IsRelevant reports whether a single item passes the keyword test.
func (f *Filterer) IsRelevant(source Source, item ParsedItem) bool {
	return matchesAny(itemText(item), f.keywordsFor(source))
}

func (f *Filterer) keywordsFor(source Source) []string {
	if keywords, ok := f.keywords[source.Name]; ok {
		return keywords
	}
	union := f.registry.Keywords(source)
	for i, keyword := range union {
		union[i] = foldText(keyword)
	}
	f.keywords[source.Name] = union
	return union
}

// itemText is the case-folded title and description used for matching.
func itemText(item ParsedItem) string {
	return foldText(item.Title + " " + item.Description)
}

func foldText(s string) string {
	return cases.Fold().String(s)
}

func matchesAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
