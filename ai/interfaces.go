package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and deterministic
// for a fixed model version.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input
	// texts, one row per text with a fixed dimensionality.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// PairwiseScorer scores (query, candidate) text pairs directly, the way a
// cross-encoder does. Scores are unbounded real values where higher means
// more relevant; callers normalize across a batch.
//
// The scorer may be absent or broken at runtime. Availability is resolved
// once at construction time and exposed as an explicit capability flag so
// call sites branch on Available rather than swallowing errors.
type PairwiseScorer interface {
	// ScorePair returns a relevance score for the (query, candidate) pair.
	ScorePair(ctx context.Context, query, candidate string) (float64, error)

	// Available reports whether the underlying model can be called.
	Available() bool
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and
// PairwiseScorer instances, ensuring they share configuration.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// PairwiseScorer returns the pairwise relevance scoring service.
	// The returned scorer is safe for concurrent use.
	PairwiseScorer() PairwiseScorer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
