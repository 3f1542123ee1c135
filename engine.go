// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package veritext

import (
	"log/slog"

	"github.com/poiesic/veritext/ai"
	"github.com/poiesic/veritext/ai/openai"
	"github.com/poiesic/veritext/check"
	"github.com/poiesic/veritext/corpus"
	"github.com/poiesic/veritext/rank"
	"github.com/poiesic/veritext/storage"
	"github.com/poiesic/veritext/storage/badger"
)

// Engine wires storage, AI services, the corpus manager, and the query
// pipeline into one handle with a single lifecycle.
type Engine struct {
	backend    *badger.Backend
	corpusRepo storage.CorpusRepository
	provider   ai.AIProvider
	manager    *corpus.Manager
	logger     *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
}

// WithAIConfig overrides the default AI service configuration.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithAIProvider injects a pre-built AI provider instead of constructing
// the OpenAI-compatible one from config. Intended for tests.
func WithAIProvider(provider ai.AIProvider) EngineOption {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage keeps all data in memory. Intended for tests.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine opens storage at filePath and initializes all services.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	corpusRepo, err := badger.NewCorpusRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			corpusRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	manager, err := corpus.NewManager(corpusRepo, provider.Embedder())
	if err != nil {
		provider.Close()
		corpusRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:    backend,
		corpusRepo: corpusRepo,
		provider:   provider,
		manager:    manager,
		logger:     slog.Default(),
	}, nil
}

// Close releases all engine resources.
func (e *Engine) Close() error {
	e.manager.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.corpusRepo.Close(); err != nil {
		e.logger.Error("error closing corpus repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// CorpusManager returns the corpus lifecycle manager.
func (e *Engine) CorpusManager() *corpus.Manager {
	return e.manager
}

// CorpusRepository returns the underlying corpus repository.
func (e *Engine) CorpusRepository() storage.CorpusRepository {
	return e.corpusRepo
}

// NewChecker creates a query checker. The pairwise re-ranker is wired
// in when the provider's scorer is configured.
func (e *Engine) NewChecker(opts ...check.Option) (*check.Checker, error) {
	reranker := rank.NewReranker(e.provider.PairwiseScorer())
	opts = append([]check.Option{check.WithReranker(reranker)}, opts...)
	return check.NewChecker(e.manager, e.provider.Embedder(), opts...)
}
