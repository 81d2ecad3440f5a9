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


package score

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/match"
	"github.com/poiesic/theoria/normalize"
)

// keywordDelimiters splits keyword strings on ASCII and full-width comma
// and semicolon.
var keywordDelimiters = map[rune]bool{',': true, '，': true, ';': true, '；': true}

// Scorer computes composite similarity between cases and innovation scores
// over their theory composition.
type Scorer struct {
	normalizer *normalize.Normalizer
	weights    Weights
	thresholds match.Thresholds
	logger     *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithWeights overrides the default signal weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) error {
		if err := w.Validate(); err != nil {
			return err
		}
		s.weights = w
		return nil
	}
}

// WithThresholds overrides the frequency tier boundaries used by Innovation.
func WithThresholds(t match.Thresholds) Option {
	return func(s *Scorer) error {
		if err := t.Validate(); err != nil {
			return err
		}
		s.thresholds = t
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		s.logger = logger
		return nil
	}
}

// NewScorer creates a scorer that normalizes theory names through the given
// normalizer before comparing them.
func NewScorer(normalizer *normalize.Normalizer, opts ...Option) (*Scorer, error) {
	scorer := &Scorer{
		normalizer: normalizer,
		weights:    DefaultWeights(),
		thresholds: match.DefaultThresholds(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(scorer); err != nil {
			return nil, err
		}
	}
	return scorer, nil
}

// Composite scores a candidate case against a new case. Semantic similarity
// is supplied by the caller and passed through unchanged.
func (s *Scorer) Composite(newCase, candidate *core.CaseRecord, semanticSimilarity float64) core.CompositeScore {
	overlap, matched := s.theoryOverlap(newCase, candidate)
	keyword := keywordSimilarity(newCase.Keywords, candidate.Keywords)
	domain := domainSimilarity(newCase, candidate)

	result := core.CompositeScore{
		TheoryOverlap:      overlap,
		SemanticSimilarity: semanticSimilarity,
		KeywordSimilarity:  keyword,
		DomainSimilarity:   domain,
		MatchedTheories:    matched,
	}
	result.FinalScore = s.weights.TheoryOverlap*overlap +
		s.weights.SemanticSimilarity*semanticSimilarity +
		s.weights.KeywordSimilarity*keyword +
		s.weights.DomainSimilarity*domain
	return result
}

// Candidate pairs a case with its externally computed semantic similarity.
type Candidate struct {
	Case               *core.CaseRecord
	SemanticSimilarity float64
}

// Rank scores every candidate against the new case and returns the topK
// highest, stable on ties so equal scores keep their input order.
func (s *Scorer) Rank(newCase *core.CaseRecord, candidates []Candidate, topK int) []core.RankedCase {
	ranked := make([]core.RankedCase, 0, len(candidates))
	for _, candidate := range candidates {
		ranked = append(ranked, core.RankedCase{
			Case:   candidate.Case,
			Scores: s.Composite(newCase, candidate.Case, candidate.SemanticSimilarity),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Scores.FinalScore > ranked[j].Scores.FinalScore
	})

	if topK >= 0 && len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// theoryOverlap computes the share of the new case's canonical theories
// also present in the candidate. Zero when the new case has none.
func (s *Scorer) theoryOverlap(newCase, candidate *core.CaseRecord) (float64, []string) {
	newTheories := s.normalizer.NormalizeList(newCase.Theories)
	if len(newTheories) == 0 {
		return 0, nil
	}

	candidateSet := make(map[string]struct{})
	for _, theory := range s.normalizer.NormalizeList(candidate.Theories) {
		candidateSet[theory] = struct{}{}
	}

	var matched []string
	for _, theory := range newTheories {
		if _, ok := candidateSet[theory]; ok {
			matched = append(matched, theory)
		}
	}
	return float64(len(matched)) / float64(len(newTheories)), matched
}

// keywordSimilarity is the Jaccard index over the two keyword sets. Zero
// when either side is empty.
func keywordSimilarity(a, b string) float64 {
	setA := keywordSet(a)
	setB := keywordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for kw := range setA {
		if _, ok := setB[kw]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// keywordSet splits a keyword string on the delimiter set, trimming and
// dropping empty entries.
func keywordSet(keywords string) map[string]struct{} {
	fields := strings.FieldsFunc(keywords, func(r rune) bool {
		return keywordDelimiters[r]
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}

// domainSimilarity grants 0.5 for a matching non-empty industry and 0.5 for
// a matching non-empty subject.
func domainSimilarity(a, b *core.CaseRecord) float64 {
	var sim float64
	if a.Industry != "" && a.Industry == b.Industry {
		sim += 0.5
	}
	if a.Subject != "" && a.Subject == b.Subject {
		sim += 0.5
	}
	return sim
}
