package match

import (
	"fmt"

	"github.com/poiesic/theoria/core"
)

// Default tier boundaries: at most 2 prior usages is novel, 5 or more is
// high-frequency, anything between is common.
const (
	DefaultNovelMax    = 2
	DefaultHighFreqMin = 5
)

// Thresholds configures the frequency tier boundaries. Both bounds are
// inclusive.
type Thresholds struct {
	NovelMax    int
	HighFreqMin int
}

// DefaultThresholds returns the standard tier configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NovelMax:    DefaultNovelMax,
		HighFreqMin: DefaultHighFreqMin,
	}
}

// Validate checks that the boundaries describe three non-overlapping bands.
func (t Thresholds) Validate() error {
	if t.NovelMax < 0 {
		return fmt.Errorf("%w: novel max %d is negative", ErrInvalidThresholds, t.NovelMax)
	}
	if t.HighFreqMin <= t.NovelMax {
		return fmt.Errorf("%w: high-frequency min %d must exceed novel max %d",
			ErrInvalidThresholds, t.HighFreqMin, t.NovelMax)
	}
	return nil
}

// Classify maps a usage count to its frequency tier.
func (t Thresholds) Classify(count int) core.FrequencyTier {
	switch {
	case count <= t.NovelMax:
		return core.TierNovel
	case count >= t.HighFreqMin:
		return core.TierHighFrequency
	default:
		return core.TierCommon
	}
}
