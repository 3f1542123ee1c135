package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/core"
	"github.com/poiesic/veritext/index"
	"github.com/poiesic/veritext/segment"
	"github.com/poiesic/veritext/storage"
)

const embedBatchSize = 32

// Corpus is a fully built corpus ready for querying: metadata, the
// original segments, and both search indices. Instances published by
// the Manager are shared between queries and must be treated as
// read-only.
type Corpus struct {
	Meta     core.CorpusMeta
	Segments []core.Segment
	Lexical  *index.Lexical
	Semantic *index.Semantic
}

// Info pairs corpus metadata with its activation state for listings.
type Info struct {
	Meta   *core.CorpusMeta
	Active bool
}

// Manager owns corpus lifecycle and the cache of built indices.
// All methods are safe for concurrent use.
type Manager struct {
	repository storage.CorpusRepository
	embedder   ai.Embedder
	normalizer segment.Normalizer
	splitter   *segment.Splitter
	pool       *ants.Pool
	logger     *slog.Logger

	// mu guards cache and active. Lifecycle operations are the only
	// writers; queries take read locks.
	mu     sync.RWMutex
	cache  map[core.ID]*Corpus
	active core.ID

	// loadMu guards loads, the per-corpus locks that keep at most one
	// build or load in flight per id.
	loadMu sync.Mutex
	loads  map[core.ID]*sync.Mutex
}

// Option configures a Manager.
type Option func(*Manager) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(m *Manager) error {
		if size < 1 {
			size = 1
		}
		if m.pool != nil {
			m.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		m.pool = pool
		return nil
	}
}

// WithNormalizer sets a custom text normalizer.
// Default is segment.DefaultNormalizer.
func WithNormalizer(normalizer segment.Normalizer) Option {
	return func(m *Manager) error {
		if normalizer != nil {
			m.normalizer = normalizer
		}
		return nil
	}
}

// WithMaxSegmentLength sets the rune length above which segments are chunked.
func WithMaxSegmentLength(length int) Option {
	return func(m *Manager) error {
		m.splitter = segment.NewSplitter(length)
		return nil
	}
}

// NewManager creates a corpus manager backed by the given repository and
// embedder. The active-corpus pointer is restored from storage.
func NewManager(repository storage.CorpusRepository, embedder ai.Embedder, opts ...Option) (*Manager, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		repository: repository,
		embedder:   embedder,
		normalizer: segment.NewDefaultNormalizer(),
		splitter:   segment.NewSplitter(0),
		pool:       pool,
		logger:     slog.Default(),
		cache:      make(map[core.ID]*Corpus),
		loads:      make(map[core.ID]*sync.Mutex),
	}

	for _, opt := range opts {
		if optErr := opt(m); optErr != nil {
			m.Release()
			return nil, optErr
		}
	}

	active, err := repository.GetActiveCorpus(context.Background())
	if err != nil {
		m.Release()
		return nil, err
	}
	m.active = active

	return m, nil
}

// Release releases the embedding worker pool.
// The manager should not be used after calling Release.
func (m *Manager) Release() {
	if m.pool != nil {
		m.pool.Release()
	}
}

// Create segments the text, embeds every segment, builds both indices,
// persists the corpus, and publishes it to the cache. Nothing becomes
// visible if any step fails.
func (m *Manager) Create(ctx context.Context, name, text string, mode core.SplitMode) (*core.CorpusMeta, error) {
	if strings.TrimSpace(name) == "" {
		return nil, core.ErrEmptyCorpusName
	}
	if err := core.ValidateSplitMode(mode); err != nil {
		return nil, err
	}

	parts, err := m.splitter.Split(text, mode)
	if err != nil {
		return nil, err
	}

	segments := make([]core.Segment, len(parts))
	normalized := make([]string, len(parts))
	texts := make([]string, len(parts))
	for i, part := range parts {
		normalized[i] = m.normalizer.Normalize(part)
		segments[i] = core.Segment{
			Index:      i,
			Text:       part,
			Normalized: normalized[i],
		}
		texts[i] = part
	}

	m.logger.Info("building corpus", "name", name, "mode", mode.String(), "segments", len(segments))

	vectors, err := m.embedSegments(ctx, texts)
	if err != nil {
		return nil, err
	}

	lexical := index.NewLexical(normalized)
	semantic := index.NewSemantic(vectors)

	meta := &core.CorpusMeta{
		Name:         name,
		SplitMode:    mode,
		EmbeddingDim: semantic.Dim(),
		Fingerprint:  core.IDFromContent(text),
	}
	stored, err := m.repository.AddCorpus(ctx, meta, segments, vectors)
	if err != nil {
		return nil, err
	}

	built := &Corpus{
		Meta:     *stored,
		Segments: segments,
		Lexical:  lexical,
		Semantic: semantic,
	}

	m.mu.Lock()
	m.cache[stored.Id] = built
	m.mu.Unlock()

	m.logger.Info("corpus created", "id", stored.Id, "segments", stored.SegmentCount, "dim", stored.EmbeddingDim)
	return stored, nil
}

// Activate marks a corpus as the target of queries that don't name one.
func (m *Manager) Activate(ctx context.Context, id core.ID) error {
	if err := m.repository.SetActiveCorpus(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: id %d", core.ErrCorpusNotFound, id)
		}
		return err
	}

	m.mu.Lock()
	m.active = id
	m.mu.Unlock()

	m.logger.Info("corpus activated", "id", id)
	return nil
}

// List returns all corpora newest first, flagging the active one.
func (m *Manager) List(ctx context.Context) ([]Info, error) {
	metas, err := m.repository.ListCorpora(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	infos := make([]Info, len(metas))
	for i, meta := range metas {
		infos[i] = Info{Meta: meta, Active: meta.Id == active}
	}
	return infos, nil
}

// Get returns the metadata of a corpus by id.
func (m *Manager) Get(ctx context.Context, id core.ID) (*core.CorpusMeta, error) {
	meta, err := m.repository.GetCorpusMeta(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", core.ErrCorpusNotFound, id)
		}
		return nil, err
	}
	return meta, nil
}

// Delete removes a corpus from storage and evicts it from the cache.
// If it was active, the active pointer is cleared.
func (m *Manager) Delete(ctx context.Context, id core.ID) error {
	if err := m.repository.DeleteCorpus(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%w: id %d", core.ErrCorpusNotFound, id)
		}
		return err
	}

	m.mu.Lock()
	delete(m.cache, id)
	if m.active == id {
		m.active = 0
	}
	m.mu.Unlock()

	m.loadMu.Lock()
	delete(m.loads, id)
	m.loadMu.Unlock()

	m.logger.Info("corpus deleted", "id", id)
	return nil
}

// Resolve returns the built corpus for the given id, loading and
// indexing it from storage on a cache miss. A zero id resolves to the
// active corpus; ErrNoActiveCorpus if none is set.
func (m *Manager) Resolve(ctx context.Context, id core.ID) (*Corpus, error) {
	if id == 0 {
		m.mu.RLock()
		id = m.active
		m.mu.RUnlock()
		if id == 0 {
			return nil, core.ErrNoActiveCorpus
		}
	}

	m.mu.RLock()
	built, ok := m.cache[id]
	m.mu.RUnlock()
	if ok {
		return built, nil
	}

	// One load per id at a time. Waiters find the cache populated on
	// the double-check.
	lock := m.loadLock(id)
	lock.Lock()
	defer lock.Unlock()

	m.mu.RLock()
	built, ok = m.cache[id]
	m.mu.RUnlock()
	if ok {
		return built, nil
	}

	return m.load(ctx, id)
}

// load reads a corpus from storage and rebuilds its indices.
// Caller must hold the per-id load lock.
func (m *Manager) load(ctx context.Context, id core.ID) (*Corpus, error) {
	stored, err := m.repository.GetCorpus(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", core.ErrCorpusNotFound, id)
		}
		return nil, err
	}

	normalized := make([]string, len(stored.Segments))
	for i := range stored.Segments {
		normalized[i] = stored.Segments[i].Normalized
	}

	lexical := index.NewLexical(normalized)
	semantic := index.NewSemantic(stored.Vectors)

	built := &Corpus{
		Meta:     stored.Meta,
		Segments: stored.Segments,
		Lexical:  lexical,
		Semantic: semantic,
	}

	m.mu.Lock()
	m.cache[id] = built
	m.mu.Unlock()

	m.logger.Debug("corpus loaded", "id", id, "segments", len(stored.Segments))
	return built, nil
}

// loadLock returns the per-corpus load lock, creating it on first use.
func (m *Manager) loadLock(id core.ID) *sync.Mutex {
	m.loadMu.Lock()
	defer m.loadMu.Unlock()
	lock, ok := m.loads[id]
	if !ok {
		lock = &sync.Mutex{}
		m.loads[id] = lock
	}
	return lock
}

// embedSegments embeds texts in batches on the worker pool. The first
// error wins and partial results are discarded.
func (m *Manager) embedSegments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		batch := texts[start:end]
		offset := start

		wg.Add(1)
		err := m.pool.Submit(func() {
			defer wg.Done()
			rows, err := m.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(rows) != len(batch) {
				err = fmt.Errorf("embedder returned %d vectors for %d texts", len(rows), len(batch))
			}
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			copy(vectors[offset:end], rows)
		})
		if err != nil {
			wg.Done()
			return nil, err
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrEmbeddingUnavailable, firstErr)
	}
	return vectors, nil
}
