package feed

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&quot;", `"`,
		"&#34;", `"`,
		"&#39;", "'",
		"&#039;", "'",
		"&apos;", "'",
		"&nbsp;", " ",
	)
)

// cleanText strips markup, decodes the common entities and collapses whitespace.
func cleanText(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// firstImage returns the first <img src> in an HTML fragment, falling back to
// the first URL of the first srcset.
func firstImage(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var src string
	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = strings.TrimSpace(s.AttrOr("src", ""))
		return src == ""
	})
	if src != "" {
		return src
	}

	doc.Find("[srcset]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		src = firstSrcsetURL(s.AttrOr("srcset", ""))
		return src == ""
	})
	return src
}

func firstSrcsetURL(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// absoluteURL resolves ref against base. Unresolvable input is returned as is.
func absoluteURL(base, ref string) string {
	ref = strings.TrimSpace(entityReplacer.Replace(ref))
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil || refURL.IsAbs() {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil || !baseURL.IsAbs() {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
