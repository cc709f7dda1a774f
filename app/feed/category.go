package feed

import "github.com/lysyi3m/rss-estate/app/article"

var Developers = []string{
	"emaar", "damac", "nakheel", "meraas", "sobha", "aldar",
	"dubai properties", "azizi", "danube", "binghatti", "ellington",
	"omniyat", "select group", "deyaar", "union properties",
}

type categoryRule struct {
	category article.Category
	keywords []string
}

// Rules are evaluated in order; the first match wins.
var categoryRules = []categoryRule{
	{article.CategoryGoldenVisa, []string{"golden visa", "residency", "visa"}},
	{article.CategoryOffPlan, []string{"off-plan", "off plan", "launch", "handover"}},
	{article.CategoryDeveloperNews, append([]string{"developer"}, Developers...)},
	{article.CategoryRegulations, []string{"law", "regulation", "rera", "dld"}},
}

// Categorize assigns a category to already case-folded text.
func Categorize(text string) article.Category {
	for _, rule := range categoryRules {
		if matchesAny(text, rule.keywords) {
			return rule.category
		}
	}
	return article.CategoryMarketTrends
}
