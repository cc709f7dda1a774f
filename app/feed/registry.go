package feed

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultGlobalKeywords is the Dubai real-estate vocabulary applied to every feed.
var DefaultGlobalKeywords = []string{
	"dubai", "uae", "emirates", "abu dhabi", "sharjah",
	"property", "properties", "real estate", "realty",
	"off-plan", "off plan", "handover", "launch",
	"apartment", "villa", "townhouse", "penthouse", "freehold",
	"rent", "rental", "tenant", "landlord", "mortgage",
	"investor", "investment", "roi", "yield",
	"golden visa", "residency",
	"rera", "dld", "land department",
	"emaar", "damac", "nakheel", "meraas", "sobha", "aldar", "azizi",
	"binghatti", "danube", "ellington", "omniyat", "deyaar",
	"developer", "downtown", "dubai marina", "palm jumeirah", "business bay",
}

// DefaultRegistry returns the four feeds the service ships with.
func DefaultRegistry() *Registry {
	return &Registry{
		Sources: []Source{
			{
				Name:     "Gulf News Property",
				URL:      "https://gulfnews.com/rss/business/property",
				Keywords: []string{"property", "real estate", "dubai"},
			},
			{
				Name:     "Khaleej Times Real Estate",
				URL:      "https://www.khaleejtimes.com/rss/business/real-estate",
				Keywords: []string{"real estate", "property", "housing"},
			},
			{
				Name:     "Arabian Business Real Estate",
				URL:      "https://www.arabianbusiness.com/industries/real-estate/feed",
				Keywords: []string{"real estate", "developer", "project"},
			},
			{
				Name:     "The National Property",
				URL:      "https://www.thenationalnews.com/arc/outboundfeeds/rss/category/business/property/",
				Keywords: []string{"property", "homes", "market"},
			},
		},
		GlobalKeywords: slices.Clone(DefaultGlobalKeywords),
	}
}

// LoadRegistry reads a YAML registry file. An empty path or a missing file
// yields DefaultRegistry.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return DefaultRegistry(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Debug("Registry file not found, using defaults", "path", path)
		return DefaultRegistry(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(registry.GlobalKeywords) == 0 {
		registry.GlobalKeywords = slices.Clone(DefaultGlobalKeywords)
	}

	if err := registry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid registry %s: %w", path, err)
	}

	slog.Debug("Registry loaded", "path", path, "feeds", len(registry.Sources))
	return &registry, nil
}

// Validate checks every source has a unique name and an absolute http(s) URL.
func (r *Registry) Validate() error {
	if r == nil {
		return fmt.Errorf("registry is nil")
	}
	if len(r.Sources) == 0 {
		return fmt.Errorf("at least one feed is required")
	}

	seen := make(map[string]bool, len(r.Sources))
	for i, source := range r.Sources {
		requiredFields := map[string]string{
			"feed name": source.Name,
			"feed URL":  source.URL,
		}
		for fieldName, fieldValue := range requiredFields {
			if strings.TrimSpace(fieldValue) == "" {
				return fmt.Errorf("%s is required at index %d", fieldName, i)
			}
		}

		u, err := url.Parse(source.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid feed URL at index %d: %s", i, source.URL)
		}

		if seen[source.Name] {
			return fmt.Errorf("duplicate feed name: %s", source.Name)
		}
		seen[source.Name] = true
	}

	return nil
}

// Keywords returns the union of the source's keywords and the global set,
// lower-cased and without duplicates.
func (r *Registry) Keywords(source Source) []string {
	union := make([]string, 0, len(source.Keywords)+len(r.GlobalKeywords))
	seen := make(map[string]bool, cap(union))
	for _, list := range [][]string{source.Keywords, r.GlobalKeywords} {
		for _, keyword := range list {
			keyword = strings.ToLower(strings.TrimSpace(keyword))
			if keyword == "" || seen[keyword] {
				continue
			}
			seen[keyword] = true
			union = append(union, keyword)
		}
	}
	return union
}
