package rank

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/veritext/ai/mock"
	"github.com/poiesic/veritext/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fusedCandidates() []core.RankedResult {
	return []core.RankedResult{
		{Index: 0, Text: "the cat sat on the mat", FinalScore: 0.9},
		{Index: 1, Text: "dogs bark loudly", FinalScore: 0.6},
		{Index: 2, Text: "weather report for tuesday", FinalScore: 0.3},
	}
}

func TestRerank_ReordersByPairwiseScore(t *testing.T) {
	scorer := mock.NewMockPairwiseScorer()
	scorer.ScorePairFunc = func(ctx context.Context, query, candidate string) (float64, error) {
		// Invert the fused order: the last candidate is most relevant.
		switch candidate {
		case "weather report for tuesday":
			return 10, nil
		case "dogs bark loudly":
			return 5, nil
		}
		return 0, nil
	}

	r := NewReranker(scorer)
	results, used, err := r.Rerank(context.Background(), "query", fusedCandidates(), 3)
	require.NoError(t, err)
	assert.True(t, used)
	require.Len(t, results, 3)

	assert.Equal(t, 2, results[0].Index)
	require.NotNil(t, results[0].RerankerScore)
	assert.InDelta(t, 1.0, *results[0].RerankerScore, 1e-9)

	// Blend is fixed 70/30.
	assert.InDelta(t, 0.7*1.0+0.3*0.3, results[0].FinalScore, 1e-9)
}

func TestRerank_TruncatesToTopN(t *testing.T) {
	r := NewReranker(mock.NewMockPairwiseScorer())

	results, used, err := r.Rerank(context.Background(), "dogs bark", fusedCandidates(), 2)
	require.NoError(t, err)
	assert.True(t, used)
	assert.Len(t, results, 2)
}

func TestRerank_ReturnsMinOfTopNAndLen(t *testing.T) {
	r := NewReranker(mock.NewMockPairwiseScorer())

	results, _, err := r.Rerank(context.Background(), "q", fusedCandidates(), 10)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestRerank_UnavailableScorerPassesThrough(t *testing.T) {
	scorer := mock.NewMockPairwiseScorer()
	scorer.Unavailable = true

	r := NewReranker(scorer)
	input := fusedCandidates()
	results, used, err := r.Rerank(context.Background(), "query", input, 2)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Equal(t, input[:2], results)
	assert.Zero(t, scorer.CallCount())
}

func TestRerank_NilScorerPassesThrough(t *testing.T) {
	r := NewReranker(nil)

	results, used, err := r.Rerank(context.Background(), "query", fusedCandidates(), 5)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Equal(t, fusedCandidates(), results)
}

func TestRerank_ScoringErrorPassesThrough(t *testing.T) {
	scorer := mock.NewMockPairwiseScorer()
	scorer.ScorePairFunc = func(ctx context.Context, query, candidate string) (float64, error) {
		return 0, errors.New("model crashed")
	}

	r := NewReranker(scorer)
	input := fusedCandidates()
	results, used, err := r.Rerank(context.Background(), "query", input, 3)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Equal(t, input, results)
	for _, res := range results {
		assert.Nil(t, res.RerankerScore)
	}
}

func TestRerank_DegenerateRangeCollapsesToZero(t *testing.T) {
	// All pairwise scores equal: unlike the fuser's 0.5, the re-ranker
	// collapses the normalized vector to zeros. Pinned deliberately so
	// a future unification is an explicit change.
	scorer := mock.NewMockPairwiseScorer()
	scorer.ScorePairFunc = func(ctx context.Context, query, candidate string) (float64, error) {
		return 4.2, nil
	}

	r := NewReranker(scorer)
	results, used, err := r.Rerank(context.Background(), "query", fusedCandidates(), 3)
	require.NoError(t, err)
	assert.True(t, used)

	for _, res := range results {
		require.NotNil(t, res.RerankerScore)
		assert.Zero(t, *res.RerankerScore)
		// Final score is 30% of the fused score, nothing from the
		// collapsed pairwise vector.
		assert.InDelta(t, 0.3*fusedCandidates()[res.Index].FinalScore, res.FinalScore, 1e-9)
	}
}

func TestRerank_EmptyCandidates(t *testing.T) {
	r := NewReranker(mock.NewMockPairwiseScorer())

	results, used, err := r.Rerank(context.Background(), "query", nil, 5)
	require.NoError(t, err)
	assert.False(t, used)
	assert.Empty(t, results)
}

func TestRerank_DoesNotMutateInput(t *testing.T) {
	r := NewReranker(mock.NewMockPairwiseScorer())
	input := fusedCandidates()

	_, _, err := r.Rerank(context.Background(), "the cat sat", input, 3)
	require.NoError(t, err)

	assert.Equal(t, fusedCandidates(), input)
}
