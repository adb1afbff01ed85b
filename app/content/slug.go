package content

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Slugify folds case and replaces every run of non letter/digit runes with a
// single hyphen, so "Type Theory" and "type-theory" share a listing.
func Slugify(s string) string {
	folded := cases.Fold().String(strings.TrimSpace(s))

	var sb strings.Builder
	hyphen := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && sb.Len() > 0 {
			sb.WriteByte('-')
			hyphen = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
