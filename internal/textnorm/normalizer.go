// Package textnorm produces the normalized text form shared by the keyword
// scanner and the fraud classifier.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
)

// Normalize lowercases title and description, strips markup, URLs, email
// addresses, digits and punctuation, and collapses whitespace. It is pure and
// deterministic; email extraction must run on the raw text before this.
func Normalize(title, description string) string {
	text := strings.ToLower(strings.TrimSpace(title + " " + description))

	text = tagPattern.ReplaceAllString(text, " ")
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")

	// Replace everything but letters with spaces so word boundaries survive.
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
