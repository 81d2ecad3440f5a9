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


// Package mapping builds the canonical-name mapping from the raw theory-name
// corpus.
//
// The Builder clusters raw names in three stages:
//   - signature bucketing: names sharing a latin acronym token or a
//     suffix-stripped ideographic/alphanumeric core land in one bucket
//   - fuzzy merge: buckets whose members reach a string-similarity threshold
//     are merged, iterated to a fixpoint so the result is a stable partition
//   - canonical selection: each group elects a canonical name by a
//     deterministic total order independent of input ordering
//
// The produced mapping is published as a YAML artifact (see package
// normalize) and loaded by the runtime normalizer.
package mapping
