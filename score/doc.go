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


// Package score combines theory overlap, semantic similarity, keyword
// overlap, and domain overlap into a single weighted score, ranks candidate
// cases by it, and derives a 0-100 innovation metric from frequency tiers.
//
// Semantic similarity is an opaque externally supplied scalar; this package
// never computes embeddings. All ratio computations degrade to zero on an
// empty denominator instead of failing.
package score
