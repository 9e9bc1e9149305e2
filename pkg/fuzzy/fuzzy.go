// Package fuzzy offers spelling correction over a known vocabulary using
// Levenshtein edit distance.
package fuzzy

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// MaxEditDistance is the largest distance a correction may have.
const MaxEditDistance = 2

// minCorrectLen is the shortest input (in runes) we try to correct.
const minCorrectLen = 2

// FuzzyMatcher handles approximate string matching against a dictionary of
// words and their frequencies.
type FuzzyMatcher struct {
	byFirst  map[rune][]string
	wordFreq map[string]int
}

// Match is a candidate correction.
type Match struct {
	Str      string
	Distance int
	Freq     int
}

// NewFuzzyMatcher builds a matcher over words. Words are bucketed by their
// first rune since corrections never change the first letter.
func NewFuzzyMatcher(words map[string]int) *FuzzyMatcher {
	byFirst := make(map[rune][]string)
	freq := make(map[string]int, len(words))
	for word, f := range words {
		lw := strings.ToLower(word)
		if lw == "" {
			continue
		}
		if _, seen := freq[lw]; !seen {
			r, _ := utf8.DecodeRuneInString(lw)
			byFirst[r] = append(byFirst[r], lw)
		}
		freq[lw] += f
	}
	return &FuzzyMatcher{byFirst: byFirst, wordFreq: freq}
}

// SuggestCorrection returns the most likely correction for a potentially
// misspelled word and whether a correction was made.
// Preference: exact match > smallest edit distance > most frequent word > word order.
func (fm *FuzzyMatcher) SuggestCorrection(input string) (string, bool) {
	lowerInput := strings.ToLower(input)
	if utf8.RuneCountInString(lowerInput) < minCorrectLen {
		return input, false
	}
	if _, ok := fm.wordFreq[lowerInput]; ok {
		return lowerInput, false
	}

	matches := fm.FindMatches(lowerInput)
	if len(matches) == 0 {
		return input, false
	}
	return matches[0].Str, true
}

// FindMatches returns every word within MaxEditDistance of pattern that
// shares its first letter, best first.
func (fm *FuzzyMatcher) FindMatches(pattern string) []Match {
	if pattern == "" {
		return nil
	}
	first, _ := utf8.DecodeRuneInString(pattern)
	patternLen := utf8.RuneCountInString(pattern)

	var matches []Match
	for _, candidate := range fm.byFirst[first] {
		if abs(utf8.RuneCountInString(candidate)-patternLen) > MaxEditDistance {
			continue
		}
		d := Levenshtein(pattern, candidate)
		if d > MaxEditDistance {
			continue
		}
		matches = append(matches, Match{Str: candidate, Distance: d, Freq: fm.wordFreq[candidate]})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		if matches[i].Freq != matches[j].Freq {
			return matches[i].Freq > matches[j].Freq
		}
		return matches[i].Str < matches[j].Str
	})
	return matches
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j], curr[j-1], prev[j-1])
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
