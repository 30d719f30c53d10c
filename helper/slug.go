package helper

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives a lowercase, hyphen separated token from text. Letters and
// digits of any script survive, so CJK titles keep their characters.
func Slugify(text string) string {
	text = strings.ToLower(norm.NFKC.String(text))

	var b strings.Builder
	b.Grow(len(text))
	pendingHyphen := false
	for _, r := range text {
		switch {
		case isWordRune(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// SlugOrFallback returns Slugify(text), or fallback when nothing of text
// survives normalisation (for example a title made only of punctuation).
func SlugOrFallback(text, fallback string) string {
	if slug := Slugify(text); slug != "" {
		return slug
	}
	return fallback
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r)
}

// TruncateSlug cuts slug to at most max runes without leaving a trailing
// hyphen.
func TruncateSlug(slug string, max int) string {
	runes := []rune(slug)
	if len(runes) <= max {
		return slug
	}
	if max <= 0 {
		return ""
	}
	return strings.TrimRight(string(runes[:max]), "-")
}

// SuffixSlug appends suffix to base, shortening base so the result fits in
// max runes.
func SuffixSlug(base, suffix string, max int) string {
	return TruncateSlug(base, max-utf8.RuneCountInString(suffix)) + suffix
}
