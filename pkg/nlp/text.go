package nlp

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}+#]+`)
var multiSpace = regexp.MustCompile(`\s+`)

// Normalize lower-cases a string and replaces every non-word run with a
// single space. Letters, digits and the tech suffixes '+' and '#' count as
// word characters so "c++" and "c#" survive normalization.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens returns the unique tokens of a normalized string.
func Tokens(normalized string) map[string]struct{} {
	out := make(map[string]struct{})
	if normalized == "" {
		return out
	}
	for _, t := range strings.Split(normalized, " ") {
		if t == "" {
			continue
		}
		out[t] = struct{}{}
	}
	return out
}

// ContainsPhrase reports whether a normalized phrase occurs in normalized
// text as whole words. "rest api" matches " ... rest api ..." but not
// " ... rest apis ...".
func ContainsPhrase(normalizedText, normalizedPhrase string) bool {
	return PhraseIndex(normalizedText, normalizedPhrase) >= 0
}

// PhraseIndex returns the byte offset of the first whole-word occurrence of
// the phrase, or -1. Offsets are only meaningful for ordering occurrences
// within the same text.
func PhraseIndex(normalizedText, normalizedPhrase string) int {
	if normalizedPhrase == "" {
		return -1
	}
	// pad with spaces so word boundaries line up at both ends
	hay := " " + normalizedText + " "
	needle := " " + normalizedPhrase + " "
	return strings.Index(hay, needle)
}
