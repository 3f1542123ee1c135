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


// Package storage defines the persistence contracts for corpora.
//
// A corpus is stored as metadata plus its ordered segments and their
// embedding vectors, all serialized in the MUS binary format. The
// lexical index is cheap to rebuild from segments and is not persisted.
// The storage/badger sub-package provides the production implementation.
package storage
