package feed

import (
	"slices"
	"testing"

	"github.com/lysyi3m/rss-estate/app/article"
)

func narrowRegistry() *Registry {
	return &Registry{
		Sources: []Source{
			{Name: "Test", URL: "https://example.com/rss", Keywords: []string{"Tower"}},
		},
		GlobalKeywords: []string{"dubai", "investor"},
	}
}

func TestFilterer_KeywordUnion(t *testing.T) {
	registry := narrowRegistry()
	filterer := NewFilterer(registry)
	source := registry.Sources[0]

	tests := []struct {
		name string
		item ParsedItem
		want bool
	}{
		{"feed keyword, case-insensitive", ParsedItem{Title: "New TOWER approved"}, true},
		{"global keyword in description", ParsedItem{Title: "Market update", Description: "Prices in Dubai rise"}, true},
		{"substring match", ParsedItem{Title: "Dubai-based fund"}, true},
		{"no keywords", ParsedItem{Title: "Election results in Norway", Description: "Turnout was high"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filterer.IsRelevant(source, tt.item); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterer_InvestorOnlyIsRelevant(t *testing.T) {
	// "investor" alone, with no Dubai context, passes the permissive threshold.
	registry := DefaultRegistry()
	filterer := NewFilterer(registry)

	item := ParsedItem{Title: "Investor sentiment improves in Tokyo equities"}
	if !filterer.IsRelevant(registry.Sources[0], item) {
		t.Error("Expected an investor-only item to be relevant")
	}
}

func TestFilterer_UnrelatedCountryDropped(t *testing.T) {
	registry := DefaultRegistry()
	filterer := NewFilterer(registry)

	items := slices.Values([]ParsedItem{
		{Title: "Parliament debates fishing quotas in Iceland", Description: "Lawmakers met on Tuesday"},
		{Title: "Dubai villa prices climb", Link: "https://example.com/villa"},
	})

	relevant := slices.Collect(filterer.Run(registry.Sources[0], items))
	if len(relevant) != 1 {
		t.Fatalf("Expected 1 relevant item, got: %d", len(relevant))
	}
	if relevant[0].Link != "https://example.com/villa" {
		t.Errorf("Expected the Dubai item, got: %s", relevant[0].Link)
	}
	if relevant[0].Source.Name != registry.Sources[0].Name {
		t.Errorf("Expected source to be attached, got: %s", relevant[0].Source.Name)
	}
}

func TestFilterer_AttachesCategory(t *testing.T) {
	registry := narrowRegistry()
	filterer := NewFilterer(registry)

	items := slices.Values([]ParsedItem{{Title: "Dubai golden visa rules for off-plan buyers"}})
	relevant := slices.Collect(filterer.Run(registry.Sources[0], items))
	if len(relevant) != 1 {
		t.Fatalf("Expected 1 item, got: %d", len(relevant))
	}
	if relevant[0].Category != article.CategoryGoldenVisa {
		t.Errorf("Expected golden_visa, got: %s", relevant[0].Category)
	}
}
