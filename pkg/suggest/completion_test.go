package suggest

import (
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCorpus = `
machine learning is a subfield of artificial intelligence.
machine code is understood by computers.
machine learning engineers build models.
artificial intelligence is transforming software engineering.
software engineers write code.
machine learning algorithms require data.
`

const tinyCorpus = "machine learning is fun machine code is fast"

func quietEngine(opts ...Option) *Engine {
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	return NewEngine(opts...)
}

func TestSuggestEndToEnd(t *testing.T) {
	e := quietEngine()
	stats := e.Train(tinyCorpus)

	assert.Equal(t, 8, stats.Tokens)
	assert.Equal(t, 6, stats.Vocabulary)

	assert.Equal(t, []Suggestion{{"learning", 0.5}}, e.Suggest("machine", "l"))

	all := e.Suggest("machine", "")
	require.Len(t, all, 6)
	assert.Equal(t, []Suggestion{
		{"code", 0.5},
		{"learning", 0.5},
		{"fast", 0},
		{"fun", 0},
		{"is", 0},
		{"machine", 0},
	}, all)
}

func TestSuggestColdStart(t *testing.T) {
	e := quietEngine()
	e.Train(tinyCorpus)

	assert.Equal(t, []Suggestion{{"machine", 0.0}}, e.Suggest("nonexistent_context", "machine"))
	assert.Equal(t, []Suggestion{{"code", 0}}, e.Suggest("", "c"))
}

func TestSuggestUnknownPrefix(t *testing.T) {
	e := quietEngine()
	e.Train(tinyCorpus)

	got := e.Suggest("machine", "zebra")
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, e.Suggest("machine", "machines"))
}

func TestSuggestRankingOrder(t *testing.T) {
	e := quietEngine()
	e.Train(sampleCorpus)

	testCases := []struct {
		context  string
		prefix   string
		expected []Suggestion
	}{
		{"machine", "l", []Suggestion{{"learning", 0.75}}},
		{"machine", "c", []Suggestion{{"code", 0.25}, {"computers", 0}}},
		{"software", "e", []Suggestion{{"engineering", 0.5}, {"engineers", 0.5}}},
		{"Machine", "L", []Suggestion{{"learning", 0.75}}},
		{"intelligence.", "machine", []Suggestion{{"machine", 0.5}}},
	}
	for _, tc := range testCases {
		t.Run(tc.context+" "+tc.prefix, func(t *testing.T) {
			got := e.Suggest(tc.context, tc.prefix)
			require.Len(t, got, len(tc.expected))
			for i := range got {
				assert.Equal(t, tc.expected[i].Word, got[i].Word)
				assert.InDelta(t, tc.expected[i].Probability, got[i].Probability, tolerance)
			}
		})
	}

	// every result list is sorted by score, then by word
	for _, ctx := range []string{"", "machine", "is", "artificial", "software"} {
		got := e.Suggest(ctx, "")
		for i := 1; i < len(got); i++ {
			prev, cur := got[i-1], got[i]
			if prev.Probability == cur.Probability {
				assert.Less(t, prev.Word, cur.Word)
			} else {
				assert.Greater(t, prev.Probability, cur.Probability)
			}
		}
	}
}

func TestSuggestN(t *testing.T) {
	e := quietEngine()
	e.Train(tinyCorpus)

	assert.Len(t, e.SuggestN("machine", "", 3), 3)
	assert.Len(t, e.SuggestN("machine", "", 0), 6)
	assert.Len(t, e.SuggestN("machine", "", 100), 6)
	assert.Equal(t, "code", e.SuggestN("machine", "", 1)[0].Word)
}

func TestUntrainedAndEmptyCorpus(t *testing.T) {
	e := quietEngine()
	assert.Empty(t, e.Suggest("", ""))
	assert.Empty(t, e.Suggest("machine", "m"))

	stats := e.Train("")
	assert.Equal(t, 0, stats.Vocabulary)
	assert.Empty(t, e.Suggest("", ""))
	assert.Empty(t, e.Suggest("a", "b"))

	e.Train(" ... !!! ")
	assert.Empty(t, e.Suggest("", ""))
	assert.Equal(t, 0, e.Stats()["vocabulary"])
}

func TestRetrainResets(t *testing.T) {
	e := quietEngine(WithCacheSize(16))
	e.Train(tinyCorpus)
	require.Equal(t, []Suggestion{{"learning", 0.5}}, e.Suggest("machine", "l"))

	e.Train("deep learning is a subset of machine learning")
	assert.False(t, e.Contains("code"))
	assert.True(t, e.Contains("deep"))
	assert.Empty(t, e.Suggest("machine", "c"))
	assert.Equal(t, []Suggestion{{"learning", 1}}, e.Suggest("machine", "l"))
	assert.Equal(t, 0.0, e.Probability("machine", "code"))
}

func TestTrainTokens(t *testing.T) {
	e := quietEngine()
	stats := e.TrainTokens([]string{"Machine", "learning.", "", "!!", "machine", "code"})

	assert.Equal(t, 4, stats.Tokens)
	assert.Equal(t, 3, stats.Vocabulary)
	assert.Equal(t, 0.5, e.Probability("machine", "learning"))
	assert.Equal(t, 1.0, e.Probability("learning", "machine"))
}

func TestSuccessorsAndCorrect(t *testing.T) {
	e := quietEngine()
	e.Train(sampleCorpus)

	next := e.Successors("machine")
	require.Len(t, next, 2)
	assert.Equal(t, Suggestion{"learning", 0.75}, next[0])
	assert.Equal(t, Suggestion{"code", 0.25}, next[1])

	word, corrected := e.Correct("lerning")
	assert.True(t, corrected)
	assert.Equal(t, "learning", word)

	word, corrected = e.Correct("learning")
	assert.False(t, corrected)
	assert.Equal(t, "learning", word)
}

func TestEngineStats(t *testing.T) {
	e := quietEngine(WithCacheSize(8))
	e.Train(tinyCorpus)
	e.Suggest("machine", "l")
	e.Suggest("machine", "l")

	stats := e.Stats()
	assert.Equal(t, 6, stats["vocabulary"])
	assert.Equal(t, 5, stats["contexts"])
	assert.Equal(t, 7, stats["pairs"])
	assert.Equal(t, 8, stats["tokens"])
	assert.Equal(t, 1, stats["cacheEntries"])
	assert.Equal(t, 1, stats["cacheHits"])
}

func TestCachedResultsAreIsolated(t *testing.T) {
	e := quietEngine(WithCacheSize(8))
	e.Train(tinyCorpus)

	first := e.Suggest("machine", "")
	first[0].Word = "mutated"

	again := e.Suggest("machine", "")
	assert.Equal(t, "code", again[0].Word)
}

func TestConcurrentSuggestDuringTrain(t *testing.T) {
	e := quietEngine(WithCacheSize(32))
	e.Train(tinyCorpus)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				got := e.Suggest("machine", "l")
				// either the old or the new model, never a half-built one
				if assert.Len(t, got, 1) {
					assert.Equal(t, "learning", got[0].Word)
				}
			}
		}()
	}
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			e.Train(sampleCorpus)
		} else {
			e.Train(tinyCorpus)
		}
	}
	wg.Wait()
}
