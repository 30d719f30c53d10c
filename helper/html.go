package helper

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy   = bluemonday.UGCPolicy()
	stripPolicy = bluemonday.StrictPolicy()
)

// SanitizeHTML removes scripts, event handlers and other unsafe markup from
// user supplied article bodies while keeping formatting tags.
func SanitizeHTML(s string) string {
	return ugcPolicy.Sanitize(s)
}

// StripHTML returns the plain text of s with whitespace collapsed.
func StripHTML(s string) string {
	text := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}

// Summarize returns at most n runes of the plain text of content, with an
// ellipsis appended when it was cut.
func Summarize(content string, n int) string {
	text := StripHTML(content)
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
