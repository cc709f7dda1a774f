package enrich

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a Dubai real estate market analyst writing for property investors."

const summaryInstruction = `Write a 150-200 word investor-focused analysis of the news article below.
Open with a one-sentence key takeaway, then explain the market implication,
the opportunities and risks for investors, and any relevant figures (prices,
yields, volumes, dates). Write plain prose paragraphs. Do not use markdown
headers, bullet points or bold text.`

func buildPrompt(title, content string) string {
	var sb strings.Builder
	sb.WriteString(summaryInstruction)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n\n", strings.TrimSpace(title)))
	sb.WriteString("Article:\n")
	sb.WriteString(strings.TrimSpace(content))
	return sb.String()
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
