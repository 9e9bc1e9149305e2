package suggest

import (
	"sync"
	"time"

	"github.com/bastiangx/wordchain/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// Suggestion is a candidate next word with its transition probability
// from the context word.
type Suggestion struct {
	Word        string  `json:"word" msgpack:"w"`
	Probability float64 `json:"probability" msgpack:"p"`
}

// TrainStats summarizes a training run.
type TrainStats struct {
	Tokens     int
	Vocabulary int
	Contexts   int
	Pairs      int
	Took       time.Duration
}

// Engine ranks prefix completions by how likely they follow the previous
// word. It owns one PrefixIndex and one TransitionModel, both built by Train.
//
// Train is an exclusive write: it builds new structures off to the side and
// swaps them in under the write lock. Queries take the read lock, so they
// always see a fully trained model.
type Engine struct {
	mu      sync.RWMutex
	index   *PrefixIndex
	model   *TransitionModel
	matcher *fuzzy.FuzzyMatcher
	cache   *ResultCache
	tokens  int
	logger  *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCacheSize sets how many query results are cached. 0 disables caching.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cache = NewResultCache(n)
	}
}

// WithLogger sets the logger used for training reports.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// NewEngine returns an untrained engine. Until Train is called every query
// comes back empty.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		index:   NewPrefixIndex(),
		model:   NewTransitionModel(),
		matcher: fuzzy.NewFuzzyMatcher(nil),
		cache:   NewResultCache(0),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Train tokenizes corpus and rebuilds the index and the transition model
// from it. Any previous training is discarded.
func (e *Engine) Train(corpus string) TrainStats {
	return e.train(Tokenize(corpus))
}

// TrainTokens is Train for text that is already split into words. Each word
// is normalized with the same rule as Tokenize.
func (e *Engine) TrainTokens(words []string) TrainStats {
	normalized := make([]string, 0, len(words))
	for _, w := range words {
		if nw := NormalizeWord(w); nw != "" {
			normalized = append(normalized, nw)
		}
	}
	return e.train(normalized)
}

func (e *Engine) train(words []string) TrainStats {
	start := time.Now()

	index := NewPrefixIndex()
	for _, w := range words {
		index.Add(w)
	}

	model := NewTransitionModel()
	model.Observe(words)
	model.Finalize()

	freqs := make(map[string]int, index.Len())
	index.Visit(func(word string, count int) {
		freqs[word] = count
	})
	matcher := fuzzy.NewFuzzyMatcher(freqs)

	e.mu.Lock()
	e.index = index
	e.model = model
	e.matcher = matcher
	e.tokens = len(words)
	e.cache.Reset()
	e.mu.Unlock()

	stats := TrainStats{
		Tokens:     len(words),
		Vocabulary: index.Len(),
		Contexts:   model.Contexts(),
		Pairs:      model.Pairs(),
		Took:       time.Since(start),
	}
	e.logger.Info("engine trained",
		"vocabulary", stats.Vocabulary,
		"tokens", stats.Tokens,
		"pairs", stats.Pairs,
		"took", stats.Took)
	return stats
}

// Suggest returns every vocabulary word starting with prefix, ranked by
// P(word | context) descending and then alphabetically. Pairs never seen in
// training score 0 and there is no fallback to word frequency.
// An unknown prefix yields an empty slice.
func (e *Engine) Suggest(context, prefix string) []Suggestion {
	context = NormalizeWord(context)
	prefix = NormalizeWord(prefix)

	e.mu.RLock()
	defer e.mu.RUnlock()

	if cached, ok := e.cache.Get(context, prefix); ok {
		return cached
	}

	candidates := e.index.WordsWithPrefix(prefix)
	ranked := make([]Suggestion, 0, len(candidates))
	for _, cand := range candidates {
		ranked = append(ranked, Suggestion{
			Word:        cand,
			Probability: e.model.Probability(context, cand),
		})
	}
	sortSuggestions(ranked)

	e.cache.Put(context, prefix, ranked)
	return ranked
}

// SuggestN is Suggest capped at limit results. A limit <= 0 means no cap.
func (e *Engine) SuggestN(context, prefix string, limit int) []Suggestion {
	res := e.Suggest(context, prefix)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res
}

// Probability returns P(candidate | context) from the trained model.
func (e *Engine) Probability(context, candidate string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Probability(NormalizeWord(context), NormalizeWord(candidate))
}

// Successors lists the words observed right after context, most likely first.
func (e *Engine) Successors(context string) []Suggestion {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.model.Successors(NormalizeWord(context))
}

// Contains reports whether word is in the trained vocabulary.
func (e *Engine) Contains(word string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index.Contains(NormalizeWord(word))
}

// Correct proposes a vocabulary word close to word. It is meant for
// "did you mean" hints and has no effect on Suggest.
func (e *Engine) Correct(word string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.matcher.SuggestCorrection(NormalizeWord(word))
}

// Stats returns counters describing the trained model and the cache.
func (e *Engine) Stats() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	stats := map[string]int{
		"vocabulary": e.index.Len(),
		"contexts":   e.model.Contexts(),
		"pairs":      e.model.Pairs(),
		"tokens":     e.tokens,
	}
	for k, v := range e.cache.Stats() {
		stats[k] = v
	}
	return stats
}
