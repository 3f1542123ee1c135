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


// Package index holds the per-corpus retrieval indices.
//
// Lexical is a BM25 term-statistics index over whitespace-tokenized
// segment text. Semantic is a dense matrix of L2-normalized embedding
// vectors scored by cosine similarity. Both are built once per corpus
// and are immutable afterwards; queries borrow them read-only.
package index
