package content

import (
	"strings"
)

const (
	moreDivider   = "<!--more-->"
	summaryLength = 70 // words
)

// summarize picks the explicit summary, then the text before the more
// divider, then the first summaryLength words of the body. Paragraph breaks
// inside that span are kept.
func summarize(explicit string, body string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}

	if before, _, found := strings.Cut(body, moreDivider); found {
		return strings.TrimSpace(before)
	}

	var picked []string
	remaining := summaryLength
	for _, paragraph := range strings.Split(body, "\n\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}

		if len(words) >= remaining {
			picked = append(picked, strings.Join(words[:remaining], " "))
			break
		}

		picked = append(picked, strings.TrimSpace(paragraph))
		remaining -= len(words)
	}

	return strings.Join(picked, "\n\n")
}
