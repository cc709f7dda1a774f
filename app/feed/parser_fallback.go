package feed

import (
	"cmp"
	"regexp"
	"strings"
)

// Tolerant scanner for documents the XML parser rejects (unescaped
// ampersands, truncated bodies, stray markup). It works on raw substrings and
// ignores namespaces beyond literal prefixes.

var (
	itemBlockPattern = regexp.MustCompile(`(?is)<(item|entry)[\s>].*?</(?:item|entry)>`)
	attrPattern      = regexp.MustCompile(`([\w:-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
)

func scanItems(body string, itemCap int) []ParsedItem {
	blocks := itemBlockPattern.FindAllString(body, itemCap)

	items := make([]ParsedItem, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, scanItem(block))
	}
	return items
}

func scanItem(block string) ParsedItem {
	item := ParsedItem{
		Title:       tagText(block, "title"),
		Link:        scanLink(block),
		Description: cmp.Or(tagText(block, "description"), tagText(block, "summary")),
		Content:     cmp.Or(tagText(block, "content:encoded"), tagText(block, "content")),
		Published: cmp.Or(
			tagText(block, "pubDate"),
			tagText(block, "published"),
			tagText(block, "dc:date"),
			tagText(block, "updated"),
		),
	}

	item.ImageURL = cmp.Or(
		tagAttr(block, "media:content", "url", nil),
		tagAttr(block, "enclosure", "url", func(attrs map[string]string) bool {
			return strings.HasPrefix(attrs["type"], "image/")
		}),
		tagAttr(block, "media:thumbnail", "url", nil),
	)

	return item
}

// tagText returns the first non-empty value of <tag>, preferring CDATA content.
func tagText(block, tag string) string {
	for _, value := range tagValues(block, tag) {
		value = strings.TrimSpace(value)
		if inner, ok := strings.CutPrefix(value, "<![CDATA["); ok {
			value = strings.TrimSpace(strings.TrimSuffix(inner, "]]>"))
		}
		if value != "" {
			return value
		}
	}
	return ""
}

func tagValues(block, tag string) []string {
	pattern := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `(?:\s[^>]*)?>(.*?)</` + regexp.QuoteMeta(tag) + `>`)
	matches := pattern.FindAllStringSubmatch(block, -1)

	values := make([]string, 0, len(matches))
	for _, match := range matches {
		values = append(values, match[1])
	}
	return values
}

// scanLink handles both RSS <link>text</link> and Atom <link href="..."/>.
func scanLink(block string) string {
	if link := tagText(block, "link"); link != "" {
		return link
	}
	return tagAttr(block, "link", "href", func(attrs map[string]string) bool {
		rel := attrs["rel"]
		return rel == "" || rel == "alternate"
	})
}

// tagAttr returns attribute name of the first <tag> element accepted by match.
func tagAttr(block, tag, name string, match func(map[string]string) bool) string {
	pattern := regexp.MustCompile(`(?is)<` + regexp.QuoteMeta(tag) + `\s([^>]*)>`)
	for _, element := range pattern.FindAllStringSubmatch(block, -1) {
		attrs := parseAttrs(element[1])
		if match != nil && !match(attrs) {
			continue
		}
		if value := strings.TrimSpace(attrs[name]); value != "" {
			return value
		}
	}
	return ""
}

func parseAttrs(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, match := range attrPattern.FindAllStringSubmatch(raw, -1) {
		attrs[strings.ToLower(match[1])] = match[2] + match[3]
	}
	return attrs
}
