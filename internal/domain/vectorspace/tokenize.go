package vectorspace

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minTokenRunes is the shortest token kept; single characters are noise.
const minTokenRunes = 2

// Tokenize lowercases text and splits it into runs of word characters
// (letters, digits, underscore). Runs shorter than two runes are dropped.
// No stop words are removed.
func Tokenize(text string) []string {
	text = norm.NFC.String(strings.ToLower(text))

	var tokens []string
	start, runes := -1, 0
	flush := func(end int) {
		if start >= 0 && runes >= minTokenRunes {
			tokens = append(tokens, text[start:end])
		}
		start, runes = -1, 0
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			runes++
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
