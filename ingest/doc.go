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


// Package ingest loads case records into the store and enriches them with
// embeddings.
//
// Records are validated and written synchronously; embedding happens
// afterwards on a worker pool, with retry and exponential backoff against a
// flaky embedding service. A record whose embedding ultimately fails stays
// in the store without a vector and is simply invisible to semantic search
// until re-ingested.
package ingest
