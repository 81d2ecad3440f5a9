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


// Package normalize resolves theory-name surface forms to canonical names.
//
// The Normalizer holds an immutable snapshot of a reverse index
// (variant -> canonical) built from a dynamic mapping artifact layered over a
// small built-in table. Lookups are case-insensitive and whitespace-collapsed.
// Unknown names pass through unchanged; absence is not an error.
//
// Reloads publish a fully built snapshot via an atomic pointer swap, so
// concurrent readers never observe a partially rebuilt index and require no
// locking.
package normalize
