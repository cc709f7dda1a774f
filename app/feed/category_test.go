package feed

import (
	"testing"

	"github.com/lysyi3m/rss-estate/app/article"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		text string
		want article.Category
	}{
		{"golden visa holders buy off-plan units", article.CategoryGoldenVisa},
		{"new residency rules", article.CategoryGoldenVisa},
		{"emaar announces handover of phase two", article.CategoryOffPlan},
		{"off plan sales hit record", article.CategoryOffPlan},
		{"damac reports profit", article.CategoryDeveloperNews},
		{"developer adds 500 units", article.CategoryDeveloperNews},
		{"union properties restructures debt", article.CategoryDeveloperNews},
		{"rera issues new rental index", article.CategoryRegulations},
		{"new law on service charges", article.CategoryRegulations},
		{"average rents rise 8% year on year", article.CategoryMarketTrends},
		{"", article.CategoryMarketTrends},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Categorize(tt.text); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestCategorize_FoldedInput(t *testing.T) {
	text := foldText("EMAAR Unveils Tower")
	if got := Categorize(text); got != article.CategoryDeveloperNews {
		t.Errorf("Expected developer_news, got %s", got)
	}
}
