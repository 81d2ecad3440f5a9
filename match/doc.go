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


// Package match resolves observed theory names against historical usage.
//
// The engine normalizes each input name to its canonical identity, queries
// the case store for every known variant of that identity, and merges the
// results so a case recorded under two spellings of the same theory counts
// once. Names with no recorded usage go through a fuzzy fallback chain
// (substring containment, ideographic-core equality, latin-token equality)
// against the full known-name corpus before being declared unmatched.
//
// Store failures always surface as errors. An empty result means the name
// genuinely has no prior usage, never that a query silently failed.
package match
