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


package semantic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/theoria/ai"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/storage"
)

// DefaultMinSimilarity filters out candidates below this cosine similarity.
const DefaultMinSimilarity = 0.60

// Matcher finds semantically similar cases and scores case pairs.
type Matcher struct {
	repository    storage.CaseRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithMinSimilarity sets the similarity floor for SimilarCases.
func WithMinSimilarity(min float32) Option {
	return func(m *Matcher) error {
		m.minSimilarity = min
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a new semantic matcher.
func NewMatcher(repository storage.CaseRepository, embedder ai.Embedder, opts ...Option) (*Matcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	m := &Matcher{
		repository:    repository,
		embedder:      embedder,
		minSimilarity: DefaultMinSimilarity,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SimilarCases finds stored cases semantically similar to the given record,
// excluding the record itself. The record's stored embedding is used when
// present, otherwise its search text is embedded on the fly.
func (m *Matcher) SimilarCases(ctx context.Context, record *core.CaseRecord, limit int) ([]*core.CaseMatch, error) {
	vector, err := m.vectorFor(ctx, record)
	if err != nil {
		return nil, err
	}

	// Fetch one extra so dropping the record itself still fills the limit.
	matches, err := m.repository.FindSimilar(ctx, vector, m.minSimilarity, limit+1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVectorSearch, err)
	}

	filtered := make([]*core.CaseMatch, 0, len(matches))
	for _, match := range matches {
		if sameCase(match.Case, record) {
			continue
		}
		filtered = append(filtered, match)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	m.logger.Debug("semantic search complete",
		slog.String("case", record.NaturalKey()),
		slog.Int("hits", len(filtered)))
	return filtered, nil
}

// Similarity scores two cases against each other, returning a cosine
// similarity in [-1,1]. Stored embeddings are reused when present.
func (m *Matcher) Similarity(ctx context.Context, a, b *core.CaseRecord) (float64, error) {
	vecA, err := m.vectorFor(ctx, a)
	if err != nil {
		return 0, err
	}
	vecB, err := m.vectorFor(ctx, b)
	if err != nil {
		return 0, err
	}
	return CosineSimilarity(vecA, vecB), nil
}

func (m *Matcher) vectorFor(ctx context.Context, record *core.CaseRecord) ([]float32, error) {
	if len(record.Vector) > 0 {
		return record.Vector, nil
	}

	embedding, err := m.embedder.EmbedText(ctx, record.SearchText())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	return NormalizeVector(embedding), nil
}

func sameCase(a, b *core.CaseRecord) bool {
	if a.Id != 0 && b.Id != 0 {
		return a.Id == b.Id
	}
	return a.NaturalKey() == b.NaturalKey() && a.NaturalKey() != ""
}
