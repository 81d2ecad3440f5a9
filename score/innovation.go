package score

import (
	"math"

	"github.com/poiesic/theoria/core"
)

// Tier contributions to the innovation score: novel theories count in full,
// common at half, high-frequency barely.
const (
	novelWeight    = 1.0
	commonWeight   = 0.5
	highFreqWeight = 0.2
)

// Innovation partitions the case's canonical theories into frequency tiers
// and summarizes them as a 0-100 score. Usage counts are looked up by the
// raw label first, then by its canonical form; absent entries count as zero
// prior usage. A case with no theories scores 0 with all ratios 0.
func (s *Scorer) Innovation(theories []string, usageCounts map[string]int) core.InnovationProfile {
	var profile core.InnovationProfile

	seen := make(map[string]struct{})
	for _, raw := range theories {
		canonical := s.normalizer.Normalize(raw)
		if canonical == "" {
			continue
		}
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}

		count, ok := usageCounts[raw]
		if !ok {
			count = usageCounts[canonical]
		}

		switch s.thresholds.Classify(count) {
		case core.TierNovel:
			profile.NovelTheories = append(profile.NovelTheories, canonical)
		case core.TierCommon:
			profile.CommonTheories = append(profile.CommonTheories, canonical)
		case core.TierHighFrequency:
			profile.HighFreqTheories = append(profile.HighFreqTheories, canonical)
		}
	}

	total := len(profile.NovelTheories) + len(profile.CommonTheories) + len(profile.HighFreqTheories)
	if total == 0 {
		return profile
	}

	profile.NovelRatio = float64(len(profile.NovelTheories)) / float64(total)
	profile.CommonRatio = float64(len(profile.CommonTheories)) / float64(total)
	profile.HighFreqRatio = float64(len(profile.HighFreqTheories)) / float64(total)
	profile.Score = round1(100 * (profile.NovelRatio*novelWeight +
		profile.CommonRatio*commonWeight +
		profile.HighFreqRatio*highFreqWeight))
	return profile
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
