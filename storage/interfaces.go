package storage

import (
	"context"

	"github.com/poiesic/veritext/core"
)

// StoredCorpus is a fully materialized corpus as read from storage:
// metadata, ordered segments, and one embedding vector per segment.
type StoredCorpus struct {
	Meta     core.CorpusMeta
	Segments []core.Segment
	Vectors  [][]float32
}

// CorpusRepository persists corpora and the active-corpus pointer.
// Implementations must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// AddCorpus stores a new corpus atomically: metadata, segments and
	// vectors become visible together or not at all. A zero meta.Id is
	// replaced with a fresh sequence-generated identifier; the stored
	// metadata (with Id and timestamps populated) is returned.
	// Returns ErrVectorCountMismatch if len(vectors) != len(segments).
	AddCorpus(ctx context.Context, meta *core.CorpusMeta, segments []core.Segment, vectors [][]float32) (*core.CorpusMeta, error)

	// GetCorpusMeta retrieves corpus metadata by ID.
	// Returns ErrNotFound if the corpus doesn't exist.
	GetCorpusMeta(ctx context.Context, id core.ID) (*core.CorpusMeta, error)

	// GetCorpus retrieves a full corpus: metadata, segments in index
	// order, and vectors aligned with the segments.
	// Returns ErrNotFound if the corpus doesn't exist.
	GetCorpus(ctx context.Context, id core.ID) (*StoredCorpus, error)

	// ListCorpora returns metadata for all stored corpora, newest first.
	ListCorpora(ctx context.Context) ([]*core.CorpusMeta, error)

	// DeleteCorpus removes a corpus and all its segments and vectors.
	// If the corpus is the active one, the active pointer is cleared in
	// the same transaction. Returns ErrNotFound if it doesn't exist.
	DeleteCorpus(ctx context.Context, id core.ID) error

	// GetActiveCorpus returns the active corpus ID, or 0 when no corpus
	// is active.
	GetActiveCorpus(ctx context.Context) (core.ID, error)

	// SetActiveCorpus marks a corpus as active.
	// Returns ErrNotFound if the corpus doesn't exist.
	SetActiveCorpus(ctx context.Context, id core.ID) error

	// ClearActiveCorpus unsets the active pointer. Clearing when nothing
	// is active is a no-op.
	ClearActiveCorpus(ctx context.Context) error

	// Close closes the repository and releases resources.
	Close() error
}
