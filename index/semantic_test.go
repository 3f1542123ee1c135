package index

import (
	"math"
	"testing"

	"github.com/poiesic/veritext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemantic_ScoreRange(t *testing.T) {
	idx := NewSemantic([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
	})

	scores, err := idx.Score([]float32{1, 0, 0})
	require.NoError(t, err)
	require.Len(t, scores, 3)

	// Identical direction -> 1, orthogonal -> 0.5, opposite -> 0.
	assert.InDelta(t, 1.0, scores[0], 1e-6)
	assert.InDelta(t, 0.5, scores[1], 1e-6)
	assert.InDelta(t, 0.0, scores[2], 1e-6)

	for _, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestSemantic_NormalizesRows(t *testing.T) {
	// Magnitude must not matter, only direction.
	idx := NewSemantic([][]float32{
		{10, 0},
		{0.1, 0},
	})

	scores, err := idx.Score([]float32{3, 0})
	require.NoError(t, err)
	assert.InDelta(t, scores[0], scores[1], 1e-6)
}

func TestSemantic_RowCountAndDim(t *testing.T) {
	idx := NewSemantic([][]float32{{1, 2, 3}, {4, 5, 6}})
	assert.Equal(t, 2, idx.RowCount())
	assert.Equal(t, 3, idx.Dim())
}

func TestSemantic_EmptyIndex(t *testing.T) {
	idx := NewSemantic(nil)
	_, err := idx.Score([]float32{1, 0})
	assert.ErrorIs(t, err, core.ErrIndexNotBuilt)
}

func TestNormalizeVector(t *testing.T) {
	out := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, float64(out[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(out[1]), 1e-6)

	var norm float64
	for _, v := range out {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestNormalizeVector_Zero(t *testing.T) {
	out := NormalizeVector([]float32{0, 0, 0})
	assert.Equal(t, []float32{0, 0, 0}, out)
}

func TestTopK(t *testing.T) {
	scores := []float64{0.1, 0.9, 0.5, 0.9}

	top := TopK(scores, 2)
	require.Len(t, top, 2)
	// Ties keep the lower index first.
	assert.Equal(t, core.Candidate{Index: 1, Score: 0.9}, top[0])
	assert.Equal(t, core.Candidate{Index: 3, Score: 0.9}, top[1])
}

func TestTopK_KLargerThanInput(t *testing.T) {
	top := TopK([]float64{0.2, 0.4}, 10)
	assert.Len(t, top, 2)
	assert.Equal(t, 1, top[0].Index)
}

func TestTopK_NonPositiveKReturnsAll(t *testing.T) {
	top := TopK([]float64{0.2, 0.4, 0.6}, 0)
	assert.Len(t, top, 3)
}
