package suggest

import "sort"

// TransitionModel holds maximum-likelihood bigram probabilities
// P(next | context) learned from adjacent word pairs.
//
// Only observed pairs are stored. A missing entry means probability 0.
type TransitionModel struct {
	unigrams map[string]int
	bigrams  map[string]map[string]int
	probs    map[string]map[string]float64
	pairs    int
}

// NewTransitionModel returns an empty model.
func NewTransitionModel() *TransitionModel {
	return &TransitionModel{
		unigrams: make(map[string]int),
		bigrams:  make(map[string]map[string]int),
		probs:    make(map[string]map[string]float64),
	}
}

// Observe counts every adjacent pair of words in order. The last word has no
// successor and is never counted as a context.
func (tm *TransitionModel) Observe(words []string) {
	for i := 0; i+1 < len(words); i++ {
		w1, w2 := words[i], words[i+1]
		tm.unigrams[w1]++
		next, ok := tm.bigrams[w1]
		if !ok {
			next = make(map[string]int)
			tm.bigrams[w1] = next
		}
		if next[w2] == 0 {
			tm.pairs++
		}
		next[w2]++
	}
}

// Finalize derives the probability table from the counts. It rebuilds the
// table from scratch, so calling it again after more Observe calls is safe.
func (tm *TransitionModel) Finalize() {
	tm.probs = make(map[string]map[string]float64, len(tm.bigrams))
	for w1, next := range tm.bigrams {
		total := float64(tm.unigrams[w1])
		row := make(map[string]float64, len(next))
		for w2, count := range next {
			row[w2] = float64(count) / total
		}
		tm.probs[w1] = row
	}
}

// Probability returns P(candidate | context), or exactly 0 when the pair was
// never observed.
func (tm *TransitionModel) Probability(context, candidate string) float64 {
	return tm.probs[context][candidate]
}

// Successors lists the observed followers of context, most likely first.
func (tm *TransitionModel) Successors(context string) []Suggestion {
	row := tm.probs[context]
	out := make([]Suggestion, 0, len(row))
	for w, p := range row {
		out = append(out, Suggestion{Word: w, Probability: p})
	}
	sortSuggestions(out)
	return out
}

// Contexts returns the number of words seen as the first element of a pair.
func (tm *TransitionModel) Contexts() int {
	return len(tm.unigrams)
}

// Pairs returns the number of distinct observed pairs.
func (tm *TransitionModel) Pairs() int {
	return tm.pairs
}

// sortSuggestions orders by probability descending, then by word so equal
// scores always come out the same way.
func sortSuggestions(s []Suggestion) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Probability != s[j].Probability {
			return s[i].Probability > s[j].Probability
		}
		return s[i].Word < s[j].Word
	})
}
