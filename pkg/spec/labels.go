package spec

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultLabeler turns a field key such as "first_name" or "emailAddress"
// into a display label ("First Name", "Email Address").
func DefaultLabeler(key string) string {
	words := keyWords(key)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// keyWords splits on separators and on lower→upper and letter↔digit changes.
func keyWords(key string) []string {
	var (
		words   []string
		current []rune
		prev    rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case len(current) > 0 && wordBreak(prev, r):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()
	return words
}

func wordBreak(prev, next rune) bool {
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(next):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(next):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(next):
		return true
	}
	return false
}

var keyJunk = regexp.MustCompile(`[^a-z0-9_]+`)

// SanitizeKey lowercases name and collapses anything outside [a-z0-9_] into a
// single underscore. It returns "field" when nothing usable remains.
func SanitizeKey(name string) string {
	key := keyJunk.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	if key = strings.Trim(key, "_"); key == "" {
		return "field"
	}
	return key
}
