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


package core

import "errors"

// Domain errors
var (
	// ErrEmptyCorpus indicates that segmentation produced zero segments,
	// e.g. the corpus text was empty or entirely whitespace/punctuation.
	ErrEmptyCorpus = errors.New("corpus produced no segments")

	// ErrCorpusNotFound indicates a query or lifecycle operation named a
	// corpus identifier that does not exist or was deleted.
	ErrCorpusNotFound = errors.New("corpus not found")

	// ErrNoActiveCorpus indicates a query was issued with no active corpus set.
	ErrNoActiveCorpus = errors.New("no active corpus")

	// ErrIndexNotBuilt indicates an index was queried before any corpus
	// was built for it.
	ErrIndexNotBuilt = errors.New("index not built")

	// ErrEmbeddingUnavailable indicates the embedding backend is missing
	// or failed. Fatal to a corpus build; not recoverable locally.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")

	// ErrRerankerUnavailable indicates the pairwise scoring model is
	// missing. Non-fatal; the re-ranking stage degrades to pass-through.
	ErrRerankerUnavailable = errors.New("reranker unavailable")

	// ErrInvalidSplitMode indicates an unrecognized split mode value.
	ErrInvalidSplitMode = errors.New("invalid split mode")

	// ErrInvalidCorpusMeta indicates corpus metadata failed validation.
	ErrInvalidCorpusMeta = errors.New("invalid corpus metadata")

	// ErrEmptyCorpusName indicates the corpus Name field is empty.
	ErrEmptyCorpusName = errors.New("corpus name cannot be empty")

	// ErrInvalidAlpha indicates a fusion weight outside [0,1].
	ErrInvalidAlpha = errors.New("alpha must be in [0,1]")

	// ErrInvalidThreshold indicates a suspicion threshold outside [0,1].
	ErrInvalidThreshold = errors.New("threshold must be in [0,1]")
)
