package index

import (
	"testing"

	"github.com/poiesic/veritext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexical_ExactMatchScoresHighest(t *testing.T) {
	idx := NewLexical([]string{
		"the cat sat on the mat",
		"dogs bark loudly",
		"a completely unrelated line about weather",
	})

	scores, err := idx.Score(Tokenize("the cat sat on the mat"))
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Greater(t, scores[0], scores[1])
	assert.Greater(t, scores[0], scores[2])
}

func TestLexical_NoOverlapScoresZero(t *testing.T) {
	idx := NewLexical([]string{
		"alpha beta gamma",
		"delta epsilon",
	})

	scores, err := idx.Score(Tokenize("omega psi"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, scores)
}

func TestLexical_DocCount(t *testing.T) {
	idx := NewLexical([]string{"one", "two", "three"})
	assert.Equal(t, 3, idx.DocCount())
}

func TestLexical_EmptyIndex(t *testing.T) {
	idx := NewLexical(nil)
	_, err := idx.Score(Tokenize("anything"))
	assert.ErrorIs(t, err, core.ErrIndexNotBuilt)
}

func TestLexical_ScoresNonNegative(t *testing.T) {
	// "the" appears in every segment; the smoothed IDF must not go
	// negative for such terms.
	idx := NewLexical([]string{
		"the cat",
		"the dog",
		"the bird",
	})

	scores, err := idx.Score(Tokenize("the"))
	require.NoError(t, err)
	for i, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, "segment %d", i)
	}
}

func TestLexical_LengthNormalization(t *testing.T) {
	// Same term frequency, shorter segment should score at least as high.
	idx := NewLexical([]string{
		"needle",
		"needle plus a lot of extra haystack words here",
	})

	scores, err := idx.Score(Tokenize("needle"))
	require.NoError(t, err)
	assert.Greater(t, scores[0], scores[1])
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Tokenize("a b  c"))
	assert.Empty(t, Tokenize("   "))
	assert.Empty(t, Tokenize(""))
}
