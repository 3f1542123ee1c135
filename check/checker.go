package check

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/core"
	"github.com/poiesic/veritext/corpus"
	"github.com/poiesic/veritext/index"
	"github.com/poiesic/veritext/rank"
	"github.com/poiesic/veritext/segment"
)

// Defaults for CheckRequest fields.
const (
	DefaultLexicalTopK  = 10
	DefaultSemanticTopK = 10
	DefaultTopN         = 5
	DefaultThreshold    = 0.75
)

// multiStagePoolSize is how far the fused candidate pool is widened
// before the pairwise re-ranking stage.
const multiStagePoolSize = 20

// CheckRequest describes one suspicion query. Build it with
// NewCheckRequest so that zero alpha stays expressible as "pure
// semantic" rather than colliding with a missing value.
type CheckRequest struct {
	// CorpusID selects the corpus to query; 0 means the active corpus.
	CorpusID core.ID

	// Text is the query text to check.
	Text string

	// Alpha weights the lexical score in the fusion, in [0, 1].
	Alpha float64

	// LexicalTopK and SemanticTopK bound the per-source candidate sets.
	LexicalTopK  int
	SemanticTopK int

	// TopN bounds the returned results.
	TopN int

	// Threshold is the final score at or above which a result is
	// flagged as suspected.
	Threshold float64
}

// NewCheckRequest creates a request for text with default parameters.
func NewCheckRequest(text string) CheckRequest {
	return CheckRequest{
		Text:         text,
		Alpha:        rank.DefaultAlpha,
		LexicalTopK:  DefaultLexicalTopK,
		SemanticTopK: DefaultSemanticTopK,
		TopN:         DefaultTopN,
		Threshold:    DefaultThreshold,
	}
}

// CheckResponse carries the ranked results of one query.
type CheckResponse struct {
	CorpusID   core.ID
	CorpusName string

	// QueryInLanguage reports whether the normalizer recognized the
	// query as its specialized language. Always false for the default
	// language-agnostic normalizer.
	QueryInLanguage bool

	// RerankerUsed reports whether the pairwise re-ranking stage
	// actually ran. Always false for plain Check.
	RerankerUsed bool

	Results []core.RankedResult
}

// Checker runs suspicion queries against corpora built by the Manager.
type Checker struct {
	manager    *corpus.Manager
	embedder   ai.Embedder
	reranker   *rank.Reranker
	normalizer segment.Normalizer
	logger     *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// WithReranker sets the pairwise re-ranker used by CheckMultiStage.
// Without one, CheckMultiStage falls back to the fused ranking.
func WithReranker(reranker *rank.Reranker) Option {
	return func(c *Checker) error {
		c.reranker = reranker
		return nil
	}
}

// WithNormalizer sets a custom query normalizer. It should match the
// normalizer the corpus was built with.
func WithNormalizer(normalizer segment.Normalizer) Option {
	return func(c *Checker) error {
		if normalizer != nil {
			c.normalizer = normalizer
		}
		return nil
	}
}

// NewChecker creates a checker over the given manager and embedder.
func NewChecker(manager *corpus.Manager, embedder ai.Embedder, opts ...Option) (*Checker, error) {
	if manager == nil {
		return nil, ErrManagerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	c := &Checker{
		manager:    manager,
		embedder:   embedder,
		normalizer: segment.NewDefaultNormalizer(),
		logger:     slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Check runs the two-stage hybrid pipeline: lexical and semantic
// retrieval fused into a single ranking, truncated to TopN.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	return c.CheckWithMonitor(ctx, req, nil)
}

// CheckWithMonitor is Check with stage callbacks.
func (c *Checker) CheckWithMonitor(ctx context.Context, req CheckRequest, monitor rank.Monitor) (*CheckResponse, error) {
	if monitor == nil {
		monitor = &rank.NoopMonitor{}
	}

	fused, built, err := c.retrieveAndFuse(ctx, req, monitor)
	if err != nil {
		return nil, err
	}

	results := c.finalize(fused, built, req.TopN, req.Threshold)
	monitor.Finish(results)

	return c.response(built, req, results, false), nil
}

// CheckMultiStage runs the hybrid pipeline, widens the fused pool, and
// re-scores it with the pairwise model when one is available.
func (c *Checker) CheckMultiStage(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	return c.CheckMultiStageWithMonitor(ctx, req, nil)
}

// CheckMultiStageWithMonitor is CheckMultiStage with stage callbacks.
func (c *Checker) CheckMultiStageWithMonitor(ctx context.Context, req CheckRequest, monitor rank.Monitor) (*CheckResponse, error) {
	if monitor == nil {
		monitor = &rank.NoopMonitor{}
	}

	fused, built, err := c.retrieveAndFuse(ctx, req, monitor)
	if err != nil {
		return nil, err
	}

	// Widen the pool beyond TopN so re-ranking can surface candidates
	// the fusion put just below the cut.
	pool := c.finalize(fused, built, multiStagePoolSize, req.Threshold)

	used := false
	results := pool
	if c.reranker != nil {
		reranked, rerankerUsed, err := c.reranker.Rerank(ctx, req.Text, pool, req.TopN)
		if err != nil {
			return nil, err
		}
		used = rerankerUsed
		results = reranked
	} else {
		c.logger.Debug("no re-ranker configured, returning fused ranking")
	}
	if !used && len(results) > req.TopN && req.TopN > 0 {
		results = results[:req.TopN]
	}
	if used {
		// Blended final scores moved; re-apply the threshold.
		for i := range results {
			results[i].Suspected = results[i].FinalScore >= req.Threshold
		}
	}
	monitor.AfterRerank(results, used)
	monitor.Finish(results)

	return c.response(built, req, results, used), nil
}

// retrieveAndFuse runs stages one and two: per-source retrieval and
// score fusion over the candidate union.
func (c *Checker) retrieveAndFuse(ctx context.Context, req CheckRequest, monitor rank.Monitor) ([]core.RankedResult, *corpus.Corpus, error) {
	if err := core.ValidateAlpha(req.Alpha); err != nil {
		return nil, nil, err
	}
	if err := core.ValidateThreshold(req.Threshold); err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, nil, ErrEmptyQuery
	}

	built, err := c.manager.Resolve(ctx, req.CorpusID)
	if err != nil {
		return nil, nil, err
	}

	monitor.Start(req.Text)

	normalized := c.normalizer.Normalize(req.Text)
	tokens := index.Tokenize(normalized)

	lexScores, err := built.Lexical.Score(tokens)
	if err != nil {
		return nil, nil, err
	}
	lexCandidates := index.TopK(lexScores, req.LexicalTopK)
	monitor.AfterLexicalSearch(lexCandidates)

	queryVector, err := c.embedder.EmbedText(ctx, req.Text)
	if err != nil {
		c.logger.Error("error generating embedding for query", "err", err)
		return nil, nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, err)
	}
	semScores, err := built.Semantic.Score(queryVector)
	if err != nil {
		return nil, nil, err
	}
	semCandidates := index.TopK(semScores, req.SemanticTopK)
	monitor.AfterSemanticSearch(semCandidates)

	fused, err := rank.Fuse(lexCandidates, semCandidates, req.Alpha)
	if err != nil {
		return nil, nil, err
	}
	monitor.AfterFusion(fused)

	return fused, built, nil
}

// finalize fills in segment text, applies the suspicion threshold, and
// truncates to topN.
func (c *Checker) finalize(fused []core.RankedResult, built *corpus.Corpus, topN int, threshold float64) []core.RankedResult {
	if topN > 0 && len(fused) > topN {
		fused = fused[:topN]
	}
	results := make([]core.RankedResult, len(fused))
	for i, result := range fused {
		if result.Index >= 0 && result.Index < len(built.Segments) {
			result.Text = built.Segments[result.Index].Text
		}
		result.Suspected = result.FinalScore >= threshold
		results[i] = result
	}
	return results
}

func (c *Checker) response(built *corpus.Corpus, req CheckRequest, results []core.RankedResult, used bool) *CheckResponse {
	return &CheckResponse{
		CorpusID:        built.Meta.Id,
		CorpusName:      built.Meta.Name,
		QueryInLanguage: c.normalizer.Detect(req.Text),
		RerankerUsed:    used,
		Results:         results,
	}
}
