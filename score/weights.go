package score

import (
	"errors"
	"fmt"
)

// ErrInvalidWeights indicates a malformed weight configuration.
var ErrInvalidWeights = errors.New("invalid signal weights")

// Default signal weights. They happen to sum to 1 but are not required to.
const (
	DefaultTheoryWeight   = 0.40
	DefaultSemanticWeight = 0.30
	DefaultKeywordWeight  = 0.20
	DefaultDomainWeight   = 0.10
)

// Weights assigns a contribution to each similarity signal.
type Weights struct {
	TheoryOverlap      float64
	SemanticSimilarity float64
	KeywordSimilarity  float64
	DomainSimilarity   float64
}

// DefaultWeights returns the standard signal weights.
func DefaultWeights() Weights {
	return Weights{
		TheoryOverlap:      DefaultTheoryWeight,
		SemanticSimilarity: DefaultSemanticWeight,
		KeywordSimilarity:  DefaultKeywordWeight,
		DomainSimilarity:   DefaultDomainWeight,
	}
}

// Validate rejects negative weights and the all-zero configuration.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"theory":   w.TheoryOverlap,
		"semantic": w.SemanticSimilarity,
		"keyword":  w.KeywordSimilarity,
		"domain":   w.DomainSimilarity,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s weight %v is negative", ErrInvalidWeights, name, v)
		}
	}
	if w.TheoryOverlap+w.SemanticSimilarity+w.KeywordSimilarity+w.DomainSimilarity == 0 {
		return fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	return nil
}
