package rank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/core"
)

// Blend weights for the re-ranking stage. Fixed policy, not configurable.
const (
	rerankWeight = 0.7
	fusedWeight  = 0.3
)

// Reranker refines the top of a fused candidate list by scoring each
// (query, candidate) pair with a pairwise relevance model. Its cost is
// bounded by the fused candidate count, not corpus size.
type Reranker struct {
	scorer ai.PairwiseScorer
	logger *slog.Logger
}

// Option configures a Reranker.
type Option func(*Reranker)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reranker) {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
	}
}

// NewReranker creates a re-ranker around the given pairwise scorer.
// A nil scorer is allowed and behaves as permanently unavailable.
func NewReranker(scorer ai.PairwiseScorer, opts ...Option) *Reranker {
	r := &Reranker{
		scorer: scorer,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Available reports whether the pairwise model can be called.
func (r *Reranker) Available() bool {
	return r.scorer != nil && r.scorer.Available()
}

// Rerank scores each candidate pair, min-max normalizes the pairwise
// scores across the batch, blends 70/30 with the existing fused score,
// re-sorts descending and truncates to topN.
//
// Unlike the fuser, a degenerate pairwise score range collapses to 0,
// not 0.5. The asymmetry is deliberate and pinned by tests; unifying it
// would silently shift blended scores.
//
// When the pairwise model is unavailable or fails, the stage is a
// no-op: the first topN input candidates are returned unchanged and the
// second return value is false so callers cannot mistake the result for
// a re-ranked one.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []core.RankedResult, topN int) ([]core.RankedResult, bool, error) {
	if len(candidates) == 0 {
		return []core.RankedResult{}, false, nil
	}

	if !r.Available() {
		r.logger.Debug("pairwise model unavailable, passing candidates through")
		return truncate(candidates, topN), false, nil
	}

	pairScores := make([]float64, len(candidates))
	for i, candidate := range candidates {
		score, err := r.scorer.ScorePair(ctx, query, candidate.Text)
		if err != nil {
			r.logger.Warn("pairwise scoring failed, passing candidates through", "candidate", candidate.Index, "err", err)
			return truncate(candidates, topN), false, nil
		}
		pairScores[i] = score
	}

	normalized := minMaxNormalize(pairScores, 0)

	reranked := make([]core.RankedResult, len(candidates))
	for i, candidate := range candidates {
		score := normalized[i]
		candidate.RerankerScore = &score
		candidate.FinalScore = rerankWeight*score + fusedWeight*candidate.FinalScore
		reranked[i] = candidate
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].FinalScore > reranked[j].FinalScore
	})
	return truncate(reranked, topN), true, nil
}

func truncate(results []core.RankedResult, n int) []core.RankedResult {
	if n > 0 && n < len(results) {
		results = results[:n]
	}
	out := make([]core.RankedResult, len(results))
	copy(out, results)
	return out
}
