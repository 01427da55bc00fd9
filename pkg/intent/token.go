package intent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits a free-text message into matchable keywords: lower-cased,
// punctuation treated as separators, tokens of two runes or fewer dropped.
// Used by the single-shot path, where no explicit keyword set exists.
func Tokenize(message string) []string {
	fields := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
