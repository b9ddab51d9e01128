package utils

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// excerptLength caps excerpts at roughly one teaser paragraph
const excerptLength = 250

// StripTagsFull removes all markup, keeping the full text
func StripTagsFull(html string) string {
	text := tagPattern.ReplaceAllString(html, " ")
	return strings.Join(strings.Fields(text), " ")
}

// StripTags turns stored HTML content into a plain-text excerpt
func StripTags(html string) string {
	text := StripTagsFull(html)
	if len(text) > excerptLength {
		cut := strings.LastIndex(text[:excerptLength], " ")
		if cut <= 0 {
			cut = excerptLength
		}
		text = text[:cut] + "…"
	}
	return text
}
