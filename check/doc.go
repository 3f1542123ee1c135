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


// Package check runs suspicion queries against a built corpus.
//
// Check is the two-stage hybrid pipeline: BM25 lexical retrieval and
// dense semantic retrieval fused by weighted min-max normalization.
// CheckMultiStage adds an optional third stage that re-scores a widened
// candidate pool with a pairwise relevance model, falling back to the
// fused ranking when that model is unavailable.
package check
