package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/veritext/core"
	"github.com/poiesic/veritext/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	idSeq, err := backend.GetSequence(corpusIDSeq)
	if err != nil {
		return nil, err
	}

	return &CorpusRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *CorpusRepository) Close() error {
	return r.idSeq.Release()
}

// AddCorpus stores a corpus with its segments and vectors in one transaction.
func (r *CorpusRepository) AddCorpus(ctx context.Context, meta *core.CorpusMeta, segments []core.Segment, vectors [][]float32) (*core.CorpusMeta, error) {
	if len(vectors) != len(segments) {
		return nil, storage.ErrVectorCountMismatch
	}
	if err := core.ValidateCorpusMeta(meta); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		if meta.Id == 0 {
			nextID, err := r.idSeq.Next()
			if err != nil {
				return err
			}
			// BadgerDB sequences can return 0 on first call, so we skip it
			if nextID == 0 {
				nextID, err = r.idSeq.Next()
				if err != nil {
					return err
				}
			}
			meta.Id = core.ID(nextID)
		}

		meta.SegmentCount = len(segments)
		meta.CreatedAt = time.Now().UTC()
		meta.UpdatedAt = meta.CreatedAt

		key := makeCorpusMetaKey(meta.Id)
		if err := tx.Set(key, storage.MarshalCorpusMeta(meta)); err != nil {
			return err
		}

		for i := range segments {
			segKey := makeSegmentKey(meta.Id, segments[i].Index)
			if err := tx.Set(segKey, storage.MarshalSegment(&segments[i])); err != nil {
				return err
			}
			vecKey := makeVectorKey(meta.Id, segments[i].Index)
			if err := tx.Set(vecKey, storage.MarshalVector(vectors[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return meta, err
}

// GetCorpusMeta retrieves corpus metadata by ID.
func (r *CorpusRepository) GetCorpusMeta(ctx context.Context, id core.ID) (*core.CorpusMeta, error) {
	var result *core.CorpusMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readCorpusMeta(tx, makeCorpusMetaKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCorpus retrieves a full corpus: metadata, segments, and vectors.
// Segment keys embed the index in BigEndian order, so iteration yields
// segments already sorted by index.
func (r *CorpusRepository) GetCorpus(ctx context.Context, id core.ID) (*storage.StoredCorpus, error) {
	var result *storage.StoredCorpus
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readCorpusMeta(tx, makeCorpusMetaKey(id))
		if err != nil {
			return err
		}
		if meta == nil {
			return storage.ErrNotFound
		}

		segments := make([]core.Segment, 0, meta.SegmentCount)
		err = iteratePrefix(tx, makePartialSegmentKey(id), func(val []byte) error {
			segment, err := storage.UnmarshalSegment(val)
			if err != nil {
				return err
			}
			segments = append(segments, *segment)
			return nil
		})
		if err != nil {
			return err
		}

		vectors := make([][]float32, 0, meta.SegmentCount)
		err = iteratePrefix(tx, makePartialVectorKey(id), func(val []byte) error {
			vector, err := storage.UnmarshalVector(val)
			if err != nil {
				return err
			}
			vectors = append(vectors, vector)
			return nil
		})
		if err != nil {
			return err
		}

		result = &storage.StoredCorpus{
			Meta:     *meta,
			Segments: segments,
			Vectors:  vectors,
		}
		return nil
	}, false)
	return result, err
}

// ListCorpora returns metadata for all stored corpora, newest first.
func (r *CorpusRepository) ListCorpora(ctx context.Context) ([]*core.CorpusMeta, error) {
	var results []*core.CorpusMeta
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := []byte(corpusMetaPrefix + ":")
		return iteratePrefix(tx, prefix, func(val []byte) error {
			meta, err := storage.UnmarshalCorpusMeta(val)
			if err != nil {
				return err
			}
			results = append(results, meta)
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b *core.CorpusMeta) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return results, nil
}

// DeleteCorpus removes a corpus with its segments and vectors. The active
// pointer is cleared in the same transaction if it references the corpus.
func (r *CorpusRepository) DeleteCorpus(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		metaKey := makeCorpusMetaKey(id)
		meta, err := readCorpusMeta(tx, metaKey)
		if err != nil {
			return err
		}
		if meta == nil {
			return storage.ErrNotFound
		}

		if err := deletePrefix(tx, makePartialSegmentKey(id)); err != nil {
			return err
		}
		if err := deletePrefix(tx, makePartialVectorKey(id)); err != nil {
			return err
		}
		if err := tx.Delete(metaKey); err != nil {
			return err
		}

		active, err := readActiveCorpus(tx)
		if err != nil {
			return err
		}
		if active == id {
			if err := tx.Delete([]byte(activeCorpusKey)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetActiveCorpus returns the active corpus ID, or 0 when none is set.
func (r *CorpusRepository) GetActiveCorpus(ctx context.Context) (core.ID, error) {
	var active core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		active, err = readActiveCorpus(tx)
		return err
	}, false)
	return active, err
}

// SetActiveCorpus marks a corpus as active.
func (r *CorpusRepository) SetActiveCorpus(ctx context.Context, id core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		meta, err := readCorpusMeta(tx, makeCorpusMetaKey(id))
		if err != nil {
			return err
		}
		if meta == nil {
			return storage.ErrNotFound
		}
		if err := tx.Set([]byte(activeCorpusKey), storage.MarshalID(id)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// ClearActiveCorpus unsets the active pointer.
func (r *CorpusRepository) ClearActiveCorpus(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete([]byte(activeCorpusKey)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Helper methods

// readCorpusMeta reads corpus metadata from the transaction.
func readCorpusMeta(tx *badger.Txn, key []byte) (*core.CorpusMeta, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var meta *core.CorpusMeta
	err = item.Value(func(val []byte) error {
		var err error
		meta, err = storage.UnmarshalCorpusMeta(val)
		return err
	})
	return meta, err
}

// readActiveCorpus reads the active corpus pointer, 0 when unset.
func readActiveCorpus(tx *badger.Txn) (core.ID, error) {
	item, err := tx.Get([]byte(activeCorpusKey))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return 0, nil
		}
		return 0, err
	}

	var id core.ID
	err = item.Value(func(val []byte) error {
		var err error
		id, err = storage.UnmarshalID(val)
		return err
	})
	return id, err
}

// iteratePrefix walks all values under a key prefix in key order.
func iteratePrefix(tx *badger.Txn, prefix []byte, fn func(val []byte) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		if err := iter.Item().Value(fn); err != nil {
			return err
		}
	}
	return nil
}

// deletePrefix removes all keys under a prefix within the transaction.
func deletePrefix(tx *badger.Txn, prefix []byte) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	iter.Close()

	for _, key := range keys {
		if err := tx.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
