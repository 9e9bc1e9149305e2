package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestObserveCountsAdjacentPairs(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe([]string{"machine", "learning", "is", "fun", "machine", "code", "is", "fast"})

	assert.Equal(t, 2, tm.unigrams["machine"])
	assert.Equal(t, 2, tm.unigrams["is"])
	assert.Equal(t, 1, tm.unigrams["fun"])
	assert.Equal(t, 1, tm.bigrams["machine"]["learning"])
	assert.Equal(t, 1, tm.bigrams["machine"]["code"])
	assert.Equal(t, 1, tm.bigrams["fun"]["machine"])

	// the last word never starts a pair
	_, ok := tm.unigrams["fast"]
	assert.False(t, ok)
	assert.Equal(t, 5, tm.Contexts())
	assert.Equal(t, 7, tm.Pairs())
}

func TestObserveShortInput(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe(nil)
	tm.Observe([]string{"alone"})
	tm.Finalize()

	assert.Equal(t, 0, tm.Contexts())
	assert.Equal(t, 0, tm.Pairs())
	assert.Equal(t, 0.0, tm.Probability("alone", "alone"))
}

func TestProbabilityNormalization(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe(Tokenize(sampleCorpus))
	tm.Finalize()

	require.NotEmpty(t, tm.probs)
	for w1, row := range tm.probs {
		sum := 0.0
		for _, p := range row {
			assert.Greater(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			sum += p
		}
		assert.InDelta(t, 1.0, sum, tolerance, "context %q", w1)
	}
}

func TestProbabilityUnseenPairIsZero(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe([]string{"machine", "learning", "is", "fun", "machine", "code", "is", "fast"})
	tm.Finalize()

	testCases := []struct {
		context   string
		candidate string
		expected  float64
	}{
		{"machine", "learning", 0.5},
		{"machine", "code", 0.5},
		{"learning", "is", 1.0},
		{"is", "fun", 0.5},
		{"machine", "fast", 0.0},
		{"fast", "machine", 0.0},
		{"nonexistent_context", "machine", 0.0},
		{"", "machine", 0.0},
		{"machine", "", 0.0},
	}
	for _, tc := range testCases {
		t.Run(tc.context+"->"+tc.candidate, func(t *testing.T) {
			assert.Equal(t, tc.expected, tm.Probability(tc.context, tc.candidate))
		})
	}
}

func TestFinalizeRecomputes(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe([]string{"a", "b"})
	tm.Finalize()
	assert.Equal(t, 1.0, tm.Probability("a", "b"))

	tm.Observe([]string{"a", "c"})
	tm.Finalize()
	assert.Equal(t, 0.5, tm.Probability("a", "b"))
	assert.Equal(t, 0.5, tm.Probability("a", "c"))
}

func TestSuccessors(t *testing.T) {
	tm := NewTransitionModel()
	tm.Observe([]string{"is", "fun", "is", "fast", "is", "fun"})
	tm.Finalize()

	got := tm.Successors("is")
	require.Len(t, got, 2)
	assert.Equal(t, "fun", got[0].Word)
	assert.InDelta(t, 2.0/3.0, got[0].Probability, tolerance)
	assert.Equal(t, "fast", got[1].Word)
	assert.InDelta(t, 1.0/3.0, got[1].Probability, tolerance)

	assert.Empty(t, tm.Successors("unknown"))
}
