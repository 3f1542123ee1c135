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


// Package corpus manages the lifecycle of reference corpora: creation
// with segmentation and embedding, activation, listing, and deletion.
//
// The Manager keeps built search indices cached per corpus id and
// maintains a single active-corpus pointer. Index builds are
// all-or-nothing: a corpus becomes visible to queries only once its
// segments, vectors, and both indices are complete.
package corpus
