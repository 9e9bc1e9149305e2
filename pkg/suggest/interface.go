// Package suggest is the core: a prefix index over the trained vocabulary and
// a bigram transition model that ranks prefix matches by the previous word.
package suggest

// ISuggester is what the CLI and the servers need from an engine.
type ISuggester interface {
	// Train rebuilds the engine from raw corpus text
	Train(corpus string) TrainStats

	// Suggest returns ranked completions of prefix following context
	Suggest(context, prefix string) []Suggestion

	// SuggestN is Suggest with a result cap
	SuggestN(context, prefix string, limit int) []Suggestion

	// Successors lists observed followers of a word
	Successors(context string) []Suggestion

	// Correct proposes a close vocabulary word for "did you mean" hints
	Correct(word string) (string, bool)

	// Stats returns statistics about the trained model
	Stats() map[string]int
}

var _ ISuggester = (*Engine)(nil)
