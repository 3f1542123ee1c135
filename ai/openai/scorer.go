package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// PairwiseScorer implements ai.PairwiseScorer by asking a chat model to
// grade (query, candidate) pairs. Availability is resolved once at
// construction: a nil client means the scorer reports unavailable and
// every call fails fast.
type PairwiseScorer struct {
	client llms.Model
	logger *slog.Logger
}

// pairScore is an internal type used for JSON unmarshaling.
type pairScore struct {
	Score float64 `json:"score"`
}

// newPairwiseScorer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newPairwiseScorer(config *ai.Config) (*PairwiseScorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-scorer")

	// An empty model disables the re-ranking stage; the scorer still
	// exists so callers can branch on Available.
	if config.RerankModel == "" {
		logger.Info("no rerank model configured, pairwise scoring disabled")
		return &PairwiseScorer{logger: logger}, nil
	}

	client, err := openai.New(
		openai.WithBaseURL(config.RerankHost),
		openai.WithToken("none"),
		openai.WithModel(config.RerankModel),
	)
	if err != nil {
		return nil, err
	}

	return &PairwiseScorer{
		client: client,
		logger: logger,
	}, nil
}

// NewPairwiseScorer creates a pairwise scorer using the provided configuration.
//
// Returns ai.PairwiseScorer interface to enforce abstraction.
func NewPairwiseScorer(config *ai.Config) (ai.PairwiseScorer, error) {
	return newPairwiseScorer(config)
}

// Available reports whether a scoring model was configured.
func (s *PairwiseScorer) Available() bool {
	return s.client != nil
}

// ScorePair grades the relevance of candidate to query. The returned
// score is unbounded; callers normalize across a batch.
func (s *PairwiseScorer) ScorePair(ctx context.Context, query, candidate string) (float64, error) {
	if s.client == nil {
		return 0, fmt.Errorf("%w: no model configured", core.ErrRerankerUnavailable)
	}

	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(rerankSystemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(buildRerankPrompt(query, candidate))},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return 0, err
		}

		if len(response.Choices) < 1 {
			lastErr = fmt.Errorf("pairwise scorer: no choices returned")
			continue
		}

		raw := strings.TrimSpace(response.Choices[0].Content)
		var parsed pairScore
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			s.logger.Warn("malformed score response", "attempt", attempt+1, "err", err)
			lastErr = err
			continue
		}
		return parsed.Score, nil
	}

	return 0, fmt.Errorf("pairwise scorer: giving up after retries: %w", lastErr)
}
