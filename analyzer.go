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


package theoria

import (
	"context"
	"log/slog"

	"github.com/poiesic/theoria/ai"
	"github.com/poiesic/theoria/ai/openai"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/ingest"
	"github.com/poiesic/theoria/mapping"
	"github.com/poiesic/theoria/match"
	"github.com/poiesic/theoria/normalize"
	"github.com/poiesic/theoria/score"
	"github.com/poiesic/theoria/semantic"
	"github.com/poiesic/theoria/storage"
	"github.com/poiesic/theoria/storage/badger"
)

// Analyzer bundles the case store, normalizer, match engine, scorer, and
// semantic matcher behind one handle.
type Analyzer struct {
	backend     *badger.Backend
	caseRepo    storage.CaseRepository
	embedder    ai.Embedder
	normalizer  *normalize.Normalizer
	engine      *match.Engine
	scorer      *score.Scorer
	matcher     *semantic.Matcher
	mappingPath string
	threshold   int
	logger      *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*analyzerOptions)

type analyzerOptions struct {
	aiConfig    *ai.Config
	embedder    ai.Embedder
	mappingPath string
	thresholds  match.Thresholds
	weights     score.Weights
	threshold   int
	inMemory    bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.aiConfig = cfg
	}
}

// WithEmbedder injects an embedder directly, bypassing the AI config.
// Intended for tests.
func WithEmbedder(embedder ai.Embedder) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.embedder = embedder
	}
}

// WithMappingArtifact sets the path of the mapping artifact. Loaded at
// startup when present; RebuildMapping writes the new mapping there.
func WithMappingArtifact(path string) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.mappingPath = path
	}
}

// WithThresholds overrides the frequency tier boundaries.
func WithThresholds(t match.Thresholds) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.thresholds = t
	}
}

// WithWeights overrides the composite scoring weights.
func WithWeights(w score.Weights) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.weights = w
	}
}

// WithSimilarityThreshold overrides the fuzzy-merge threshold used by
// RebuildMapping (0-100).
func WithSimilarityThreshold(threshold int) AnalyzerOption {
	return func(o *analyzerOptions) {
		o.threshold = threshold
	}
}

// WithInMemoryStore opens the case store in memory. Intended for tests.
func WithInMemoryStore() AnalyzerOption {
	return func(o *analyzerOptions) {
		o.inMemory = true
	}
}

// NewAnalyzer opens the case store at filePath and wires up the analysis
// components.
func NewAnalyzer(filePath string, opts ...AnalyzerOption) (*Analyzer, error) {
	options := &analyzerOptions{
		aiConfig:   ai.DefaultConfig(),
		thresholds: match.DefaultThresholds(),
		weights:    score.DefaultWeights(),
		threshold:  mapping.DefaultSimilarityThreshold,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	caseRepo, err := badger.NewCaseRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			caseRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	normalizer := normalize.NewNormalizer()
	if options.mappingPath != "" {
		normalizer.LoadArtifact(options.mappingPath)
	}

	engine, err := match.NewEngine(normalizer, caseRepo,
		match.WithThresholds(options.thresholds))
	if err != nil {
		caseRepo.Close()
		backend.Close()
		return nil, err
	}

	scorer, err := score.NewScorer(normalizer,
		score.WithWeights(options.weights),
		score.WithThresholds(options.thresholds))
	if err != nil {
		caseRepo.Close()
		backend.Close()
		return nil, err
	}

	matcher, err := semantic.NewMatcher(caseRepo, embedder)
	if err != nil {
		caseRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Analyzer{
		backend:     backend,
		caseRepo:    caseRepo,
		embedder:    embedder,
		normalizer:  normalizer,
		engine:      engine,
		scorer:      scorer,
		matcher:     matcher,
		mappingPath: options.mappingPath,
		threshold:   options.threshold,
		logger:      slog.Default(),
	}, nil
}

// Close closes the underlying store.
func (a *Analyzer) Close() error {
	if err := a.caseRepo.Close(); err != nil {
		a.logger.Error("error closing case repository", "err", err)
		return err
	}
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// CaseRepository exposes the underlying case store.
func (a *Analyzer) CaseRepository() storage.CaseRepository {
	return a.caseRepo
}

// Normalizer exposes the canonical-name normalizer.
func (a *Analyzer) Normalizer() *normalize.Normalizer {
	return a.normalizer
}

// NewIngestPipeline creates an ingestion pipeline sharing the analyzer's
// store and embedder.
func (a *Analyzer) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	return ingest.NewPipeline(a.caseRepo, a.embedder, opts...)
}

// MatchTheories resolves theory names against historical usage.
func (a *Analyzer) MatchTheories(ctx context.Context, names []string) (*match.Result, error) {
	return a.engine.Match(ctx, names)
}

// Report is the full analysis of one case against the historical corpus.
type Report struct {
	Matches      map[string]*core.MatchResult
	FuzzyMatches map[string]*core.MatchResult
	Unmatched    []string
	Similar      []core.RankedCase
	Innovation   core.InnovationProfile
}

// AnalyzeCase matches the case's theories, ranks the topK most similar
// historical cases by composite score, and computes the innovation profile.
func (a *Analyzer) AnalyzeCase(ctx context.Context, record *core.CaseRecord, topK int) (*Report, error) {
	if err := core.ValidateCaseRecord(record); err != nil {
		return nil, err
	}

	matches, err := a.engine.Match(ctx, record.Theories)
	if err != nil {
		return nil, err
	}

	similar, err := a.matcher.SimilarCases(ctx, record, topK)
	if err != nil {
		return nil, err
	}

	candidates := make([]score.Candidate, 0, len(similar))
	for _, m := range similar {
		candidates = append(candidates, score.Candidate{
			Case:               m.Case,
			SemanticSimilarity: float64(m.Score),
		})
	}

	return &Report{
		Matches:      matches.Normalized,
		FuzzyMatches: matches.Fuzzy,
		Unmatched:    matches.Unmatched,
		Similar:      a.scorer.Rank(record, candidates, topK),
		Innovation:   a.scorer.Innovation(record.Theories, matches.UsageCounts()),
	}, nil
}

// RebuildMapping clusters the full known-name corpus (plus any supplementary
// names) into a fresh canonical mapping, publishes it to the normalizer, and
// writes the artifact when a path is configured. A failed build publishes
// nothing and leaves the previous mapping active.
func (a *Analyzer) RebuildMapping(ctx context.Context, supplementary ...string) (core.Mapping, error) {
	builder, err := mapping.NewBuilder(mapping.WithSimilarityThreshold(a.threshold))
	if err != nil {
		return nil, err
	}

	built, err := builder.Build(ctx, a.engine, supplementary...)
	if err != nil {
		return nil, err
	}

	if a.mappingPath != "" {
		if err := normalize.WriteArtifact(a.mappingPath, built); err != nil {
			return nil, err
		}
	}

	a.normalizer.Load(built)
	a.engine.Refresh()
	a.logger.Info("canonical mapping rebuilt",
		"groups", len(built), "variants", built.VariantCount())
	return built, nil
}
