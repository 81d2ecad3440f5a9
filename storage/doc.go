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


// Package storage provides the storage abstraction layer for theoria.
//
// This package defines repository interfaces that decouple storage
// implementation from the matching and scoring engines. Public constructors
// in backend packages return these interfaces so consumers never couple to
// BadgerDB specifics:
//
//	repo, err := badger.NewCaseRepository(backend) // returns storage.CaseRepository
//
// Theory-name lookups match the stored labels literally: historical records
// may carry un-normalized spellings, and it is the match engine's job to
// query every variant and merge the results.
//
// All repository implementations must be thread-safe and accept
// context.Context for cancellation and timeouts.
package storage
