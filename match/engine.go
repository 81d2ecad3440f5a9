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


package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/normalize"
	"github.com/poiesic/theoria/storage"
)

// Engine resolves theory names to canonical identities and aggregates their
// historical usage across all known variants.
type Engine struct {
	normalizer *normalize.Normalizer
	store      storage.CaseRepository
	thresholds Thresholds
	logger     *slog.Logger

	mu           sync.Mutex
	corpus       []string
	corpusLoaded bool
}

// Option configures an Engine.
type Option func(*Engine) error

// WithThresholds overrides the default frequency tier boundaries.
func WithThresholds(t Thresholds) Option {
	return func(e *Engine) error {
		if err := t.Validate(); err != nil {
			return err
		}
		e.thresholds = t
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// NewEngine creates a match engine backed by the given normalizer and case
// store.
func NewEngine(normalizer *normalize.Normalizer, store storage.CaseRepository, opts ...Option) (*Engine, error) {
	engine := &Engine{
		normalizer: normalizer,
		store:      store,
		thresholds: DefaultThresholds(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(engine); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// Result holds the outcome of a match run. Every non-blank input name lands
// in exactly one of the three buckets. Normalized and fuzzy matches are kept
// apart so callers can tell confident resolutions from fallback guesses.
type Result struct {
	Normalized map[string]*core.MatchResult
	Fuzzy      map[string]*core.MatchResult
	Unmatched  []string
}

// UsageCounts flattens the result into input-name → deduplicated usage
// count. Unmatched names count zero.
func (r *Result) UsageCounts() map[string]int {
	counts := make(map[string]int, len(r.Normalized)+len(r.Fuzzy)+len(r.Unmatched))
	for name, m := range r.Normalized {
		counts[name] = m.UsageCount
	}
	for name, m := range r.Fuzzy {
		counts[name] = m.UsageCount
	}
	for _, name := range r.Unmatched {
		counts[name] = 0
	}
	return counts
}

// Match resolves each input name and aggregates its historical usage.
// Blank names are skipped. A store failure aborts the whole run.
func (e *Engine) Match(ctx context.Context, names []string) (*Result, error) {
	result := &Result{
		Normalized: make(map[string]*core.MatchResult),
		Fuzzy:      make(map[string]*core.MatchResult),
	}

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}

		canonical := e.normalizer.Normalize(name)
		variants := e.normalizer.VariantsOf(canonical)

		cases, err := e.aggregate(ctx, variants)
		if err != nil {
			return nil, err
		}

		if len(cases) > 0 {
			result.Normalized[name] = e.buildResult(name, canonical, variants, cases, core.MatchNormalized)
			continue
		}

		fuzzy, err := e.fallback(ctx, name)
		if err != nil {
			return nil, err
		}
		if fuzzy != nil {
			result.Fuzzy[name] = fuzzy
		} else {
			result.Unmatched = append(result.Unmatched, name)
		}
	}

	return result, nil
}

// Refresh discards the cached known-name corpus. Call after the underlying
// store changes if fuzzy fallback should see the new names.
func (e *Engine) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.corpus = nil
	e.corpusLoaded = false
}

// AllTheoryNames exposes the store's name corpus, making the engine usable
// as a mapping.NameSource.
func (e *Engine) AllTheoryNames(ctx context.Context) ([]string, error) {
	return e.knownNames(ctx)
}

// fallback tries to resolve a name with no direct usage via the fuzzy
// chain, re-aggregating against the hit's canonical identity.
func (e *Engine) fallback(ctx context.Context, name string) (*core.MatchResult, error) {
	corpus, err := e.knownNames(ctx)
	if err != nil {
		return nil, err
	}

	hit, ok := fuzzyCandidate(name, corpus)
	if !ok {
		return nil, nil
	}

	canonical := e.normalizer.Normalize(hit)
	variants := e.normalizer.VariantsOf(canonical)
	cases, err := e.aggregate(ctx, variants)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, nil
	}

	e.logger.Debug("fuzzy fallback hit",
		slog.String("input", name),
		slog.String("resolved", canonical))

	return e.buildResult(name, canonical, variants, cases, core.MatchFuzzy), nil
}

// aggregate queries the store for every variant and merges the results,
// deduplicating by case id with the natural key as fallback.
func (e *Engine) aggregate(ctx context.Context, variants []string) ([]*core.CaseRecord, error) {
	seen := make(map[string]struct{})
	var merged []*core.CaseRecord

	for _, variant := range variants {
		cases, err := e.store.GetCasesUsingTheory(ctx, variant)
		if err != nil {
			return nil, fmt.Errorf("%w: theory %q: %v", ErrCaseStore, variant, err)
		}
		for _, record := range cases {
			key := identityKey(record)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, record)
		}
	}

	return merged, nil
}

func (e *Engine) buildResult(input, canonical string, variants []string, cases []*core.CaseRecord, confidence core.MatchConfidence) *core.MatchResult {
	return &core.MatchResult{
		InputName:  input,
		Theory:     canonical,
		Variants:   variants,
		UsageCount: len(cases),
		Tier:       e.thresholds.Classify(len(cases)),
		Confidence: confidence,
		Cases:      cases,
	}
}

func (e *Engine) knownNames(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.corpusLoaded {
		names, err := e.store.AllTheoryNames(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: name corpus: %v", ErrCaseStore, err)
		}
		e.corpus = names
		e.corpusLoaded = true
	}
	return e.corpus, nil
}

// identityKey picks the deduplication key for a case record: the id when
// assigned, else the natural key.
func identityKey(record *core.CaseRecord) string {
	if record.Id != 0 {
		return fmt.Sprintf("id:%d", record.Id)
	}
	return "nk:" + record.NaturalKey()
}
