package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/poiesic/veritext/core"
	"github.com/poiesic/veritext/storage"
)

func makeTestCorpus(name string, count int) (*core.CorpusMeta, []core.Segment, [][]float32) {
	meta := &core.CorpusMeta{
		Name:         name,
		SplitMode:    core.SplitModeSentence,
		EmbeddingDim: 3,
	}
	segments := make([]core.Segment, count)
	vectors := make([][]float32, count)
	for i := 0; i < count; i++ {
		segments[i] = core.Segment{
			Index:      i,
			Text:       "Segment text.",
			Normalized: "segment text.",
		}
		vectors[i] = []float32{float32(i), 0.5, -0.5}
	}
	return meta, segments, vectors
}

func TestCorpusBasics(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	meta, segments, vectors := makeTestCorpus("essays", 3)
	stored, err := repo.AddCorpus(ctx, meta, segments, vectors)
	if err != nil {
		t.Fatalf("Failed to add corpus: %v", err)
	}

	if stored.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}
	if stored.SegmentCount != 3 {
		t.Fatalf("Expected segment count 3, got %d", stored.SegmentCount)
	}
	if stored.CreatedAt.IsZero() || stored.UpdatedAt.IsZero() {
		t.Fatal("Expected timestamps to be set")
	}

	// Metadata round-trip
	got, err := repo.GetCorpusMeta(ctx, stored.Id)
	if err != nil {
		t.Fatalf("Failed to get corpus meta: %v", err)
	}
	if got.Name != "essays" {
		t.Fatalf("Expected 'essays', got '%s'", got.Name)
	}

	// Full corpus round-trip
	full, err := repo.GetCorpus(ctx, stored.Id)
	if err != nil {
		t.Fatalf("Failed to get corpus: %v", err)
	}
	if len(full.Segments) != 3 || len(full.Vectors) != 3 {
		t.Fatalf("Expected 3 segments and 3 vectors, got %d and %d",
			len(full.Segments), len(full.Vectors))
	}
	for i, segment := range full.Segments {
		if segment.Index != i {
			t.Fatalf("Expected segment %d at position %d, got %d", i, i, segment.Index)
		}
		if full.Vectors[i][0] != float32(i) {
			t.Fatalf("Vector %d misaligned with its segment", i)
		}
	}
}

func TestCorpusNotFound(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	if _, err := repo.GetCorpusMeta(ctx, core.ID(999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetCorpus(ctx, core.ID(999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteCorpus(ctx, core.ID(999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if err := repo.SetActiveCorpus(ctx, core.ID(999)); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestVectorCountMismatch(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	meta, segments, vectors := makeTestCorpus("mismatch", 3)
	_, err = repo.AddCorpus(ctx, meta, segments, vectors[:2])
	if !errors.Is(err, storage.ErrVectorCountMismatch) {
		t.Fatalf("Expected ErrVectorCountMismatch, got %v", err)
	}
}

func TestListCorporaNewestFirst(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		meta, segments, vectors := makeTestCorpus(name, 1)
		if _, err := repo.AddCorpus(ctx, meta, segments, vectors); err != nil {
			t.Fatalf("Failed to add corpus %s: %v", name, err)
		}
	}

	listed, err := repo.ListCorpora(ctx)
	if err != nil {
		t.Fatalf("Failed to list corpora: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("Expected 3 corpora, got %d", len(listed))
	}
	for i := 1; i < len(listed); i++ {
		if listed[i].CreatedAt.After(listed[i-1].CreatedAt) {
			t.Fatalf("Expected newest-first order, got %v before %v",
				listed[i-1].CreatedAt, listed[i].CreatedAt)
		}
	}
}

func TestActiveCorpusPointer(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	// Nothing active initially
	active, err := repo.GetActiveCorpus(ctx)
	if err != nil {
		t.Fatalf("Failed to get active corpus: %v", err)
	}
	if active != 0 {
		t.Fatalf("Expected no active corpus, got %d", active)
	}

	meta, segments, vectors := makeTestCorpus("target", 1)
	stored, err := repo.AddCorpus(ctx, meta, segments, vectors)
	if err != nil {
		t.Fatalf("Failed to add corpus: %v", err)
	}

	if err := repo.SetActiveCorpus(ctx, stored.Id); err != nil {
		t.Fatalf("Failed to set active corpus: %v", err)
	}

	active, err = repo.GetActiveCorpus(ctx)
	if err != nil {
		t.Fatalf("Failed to get active corpus: %v", err)
	}
	if active != stored.Id {
		t.Fatalf("Expected active corpus %d, got %d", stored.Id, active)
	}

	if err := repo.ClearActiveCorpus(ctx); err != nil {
		t.Fatalf("Failed to clear active corpus: %v", err)
	}
	active, err = repo.GetActiveCorpus(ctx)
	if err != nil {
		t.Fatalf("Failed to get active corpus: %v", err)
	}
	if active != 0 {
		t.Fatalf("Expected no active corpus after clear, got %d", active)
	}

	// Clearing again is a no-op
	if err := repo.ClearActiveCorpus(ctx); err != nil {
		t.Fatalf("Expected clearing with no active corpus to succeed, got %v", err)
	}
}

func TestDeleteCorpusClearsActive(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	meta, segments, vectors := makeTestCorpus("doomed", 2)
	stored, err := repo.AddCorpus(ctx, meta, segments, vectors)
	if err != nil {
		t.Fatalf("Failed to add corpus: %v", err)
	}
	if err := repo.SetActiveCorpus(ctx, stored.Id); err != nil {
		t.Fatalf("Failed to set active corpus: %v", err)
	}

	if err := repo.DeleteCorpus(ctx, stored.Id); err != nil {
		t.Fatalf("Failed to delete corpus: %v", err)
	}

	if _, err := repo.GetCorpusMeta(ctx, stored.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound after delete, got %v", err)
	}

	active, err := repo.GetActiveCorpus(ctx)
	if err != nil {
		t.Fatalf("Failed to get active corpus: %v", err)
	}
	if active != 0 {
		t.Fatalf("Expected active pointer cleared by delete, got %d", active)
	}
}

func TestClosedBackend(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	repo.Close()
	backend.Close()

	_, err = repo.GetActiveCorpus(context.Background())
	if !errors.Is(err, storage.ErrStorageClosed) {
		t.Fatalf("Expected ErrStorageClosed, got %v", err)
	}
}

func TestDeleteCorpusKeepsOthers(t *testing.T) {
	repo, backend, err := NewMemoryRepository()
	if err != nil {
		t.Fatalf("Failed to create repository: %v", err)
	}
	defer func() { repo.Close(); backend.Close() }()

	ctx := context.Background()

	metaA, segmentsA, vectorsA := makeTestCorpus("keep", 2)
	keep, err := repo.AddCorpus(ctx, metaA, segmentsA, vectorsA)
	if err != nil {
		t.Fatalf("Failed to add corpus: %v", err)
	}
	metaB, segmentsB, vectorsB := makeTestCorpus("drop", 2)
	drop, err := repo.AddCorpus(ctx, metaB, segmentsB, vectorsB)
	if err != nil {
		t.Fatalf("Failed to add corpus: %v", err)
	}

	if err := repo.DeleteCorpus(ctx, drop.Id); err != nil {
		t.Fatalf("Failed to delete corpus: %v", err)
	}

	full, err := repo.GetCorpus(ctx, keep.Id)
	if err != nil {
		t.Fatalf("Failed to get surviving corpus: %v", err)
	}
	if len(full.Segments) != 2 || len(full.Vectors) != 2 {
		t.Fatalf("Surviving corpus lost data: %d segments, %d vectors",
			len(full.Segments), len(full.Vectors))
	}
}
