package article

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"
	"time"
)

const (
	// TypeHeadline marks records produced by the feed pipeline.
	TypeHeadline = "headline"
	// StatusPublished is the status every pipeline insert starts with.
	StatusPublished = "published"
)

const (
	WordsPerMinute             = 200
	FallbackReadingTimeMinutes = 2
)

// Draft is a fully assembled article that has not been persisted yet.
type Draft struct {
	Title              string
	Excerpt            string
	SourceName         string
	SourceURL          string
	SourceHash         string
	ImageURL           *string
	Content            *string
	Category           Category
	PublishedAt        time.Time
	ReadingTimeMinutes int
}

// Article is a persisted Draft with a store-assigned identifier.
type Article struct {
	ID                 string
	Title              string
	Excerpt            string
	SourceName         string
	SourceURL          string
	SourceHash         string
	ImageURL           *string
	Content            *string
	Category           Category
	ArticleType        string
	Status             string
	PublishedAt        time.Time
	ReadingTimeMinutes int
	CreatedAt          time.Time
}

// Fingerprint returns the dedup key for a canonical source URL.
func Fingerprint(sourceURL string) string {
	hash := sha256.Sum256([]byte(sourceURL))
	return hex.EncodeToString(hash[:])
}

// ReadingTime estimates minutes to read content at WordsPerMinute.
// A nil content (no enrichment) yields the fixed fallback.
func ReadingTime(content *string) int {
	if content == nil {
		return FallbackReadingTimeMinutes
	}
	words := len(strings.Fields(*content))
	if words == 0 {
		return FallbackReadingTimeMinutes
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}
