package suggest

import (
	"strings"
	"unicode"
)

// Tokenize splits raw corpus text into lowercase words.
// Text is split on whitespace and every token loses its leading and trailing
// punctuation or symbols, so "Learning." and "(learning" both become
// "learning" while "don't" and "forget-me-not" stay intact.
// Tokens that are only punctuation are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		if w := trimWord(f); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// NormalizeWord applies the Tokenize rule to a single query word.
func NormalizeWord(word string) string {
	return trimWord(strings.ToLower(strings.TrimSpace(word)))
}

func trimWord(s string) string {
	return strings.TrimFunc(s, isTrimmable)
}

func isTrimmable(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}
