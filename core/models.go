package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing of the case's natural key.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FrequencyTier classifies a theory's aggregate historical usage count.
type FrequencyTier int

const (
	// TierNovel means the theory has been used at most NovelMax times.
	TierNovel FrequencyTier = iota + 1
	// TierCommon means the usage count falls between the novel and high-frequency bands.
	TierCommon
	// TierHighFrequency means the theory has been used at least HighFreqMin times.
	TierHighFrequency
)

// String returns a human-readable tier label.
func (t FrequencyTier) String() string {
	switch t {
	case TierNovel:
		return "novel"
	case TierCommon:
		return "common"
	case TierHighFrequency:
		return "high-frequency"
	default:
		return "unknown"
	}
}

// MatchConfidence identifies how a theory name was resolved against the corpus.
type MatchConfidence int

const (
	// MatchNormalized means the name resolved through the canonical mapping.
	MatchNormalized MatchConfidence = iota + 1
	// MatchFuzzy means the name only resolved through the fuzzy fallback.
	MatchFuzzy
)

// CaseRecord is a case summary as stored in the case store.
// Theories holds the raw theory-name labels the case was recorded under,
// which may be un-normalized historical spellings.
type CaseRecord struct {
	Id         ID
	Name       string
	Code       string
	Year       int
	Subject    string
	Industry   string
	Keywords   string
	Theories   []string
	Summary    string
	Vector     []float32 // Embedding vector for semantic search (populated by ingestion)
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// NaturalKey returns the identity used for deduplication when Id is unset:
// the case code, falling back to the case name.
func (c *CaseRecord) NaturalKey() string {
	if c.Code != "" {
		return c.Code
	}
	return c.Name
}

// SearchText returns the text representation fed to the embedding service.
func (c *CaseRecord) SearchText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Summary, c.Keywords} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "\n")
}

// Mapping is the canonical-name mapping: canonical theory name to its ordered
// variant list, with the canonical itself in first position.
// A Mapping is built once per rebuild and read-only afterwards.
type Mapping map[string][]string

// Canonicals returns the canonical names in the mapping, unordered.
func (m Mapping) Canonicals() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}

// VariantCount returns the total number of variant entries across all groups.
func (m Mapping) VariantCount() int {
	n := 0
	for _, variants := range m {
		n += len(variants)
	}
	return n
}

// MatchResult is the aggregate usage of one queried theory name.
type MatchResult struct {
	InputName  string
	Theory     string // Resolved canonical name
	Variants   []string
	UsageCount int
	Tier       FrequencyTier
	Confidence MatchConfidence
	Cases      []*CaseRecord // Deduplicated supporting cases
}

// CompositeScore holds the per-signal similarity scores between two cases and
// their weighted combination. All sub-scores are in [0,1].
type CompositeScore struct {
	TheoryOverlap      float64
	SemanticSimilarity float64
	KeywordSimilarity  float64
	DomainSimilarity   float64
	FinalScore         float64
	MatchedTheories    []string // Overlapping canonical theories
}

// RankedCase is a candidate case together with its composite score.
type RankedCase struct {
	Case   *CaseRecord
	Scores CompositeScore
}

// CaseMatch is a case returned from vector similarity search.
type CaseMatch struct {
	Case  *CaseRecord
	Score float32
}

// InnovationProfile partitions a case's canonical theories into frequency
// tiers and summarizes them as a 0-100 innovation score.
type InnovationProfile struct {
	Score            float64
	NovelTheories    []string
	CommonTheories   []string
	HighFreqTheories []string
	NovelRatio       float64
	CommonRatio      float64
	HighFreqRatio    float64
}
