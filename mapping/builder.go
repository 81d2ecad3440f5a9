package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/theoria/core"
)

// DefaultSimilarityThreshold is the fuzzy-merge threshold on the 0-100
// normalized edit-distance scale.
const DefaultSimilarityThreshold = 92

// NameSource enumerates all historically known raw theory-name strings.
type NameSource interface {
	AllTheoryNames(ctx context.Context) ([]string, error)
}

// Builder clusters raw theory names into the canonical mapping.
// A Builder is stateless across builds and safe to reuse.
type Builder struct {
	threshold int
	suffixes  []string
	poolSize  int
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithSimilarityThreshold sets the fuzzy-merge threshold (0-100).
func WithSimilarityThreshold(threshold int) Option {
	return func(b *Builder) error {
		if threshold < 0 || threshold > 100 {
			return fmt.Errorf("%w: %d", ErrInvalidThreshold, threshold)
		}
		b.threshold = threshold
		return nil
	}
}

// WithSuffixWords replaces the generic suffix-word list used when computing
// name cores.
func WithSuffixWords(words []string) Option {
	return func(b *Builder) error {
		b.suffixes = append([]string(nil), words...)
		return nil
	}
}

// WithPoolSize sets the worker pool size for parallel signature computation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a Builder with default clustering parameters.
func NewBuilder(opts ...Option) (*Builder, error) {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	b := &Builder{
		threshold: DefaultSimilarityThreshold,
		suffixes:  append([]string(nil), defaultSuffixWords...),
		poolSize:  poolSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Build clusters the full known-name corpus (plus any supplementary names)
// into a canonical mapping. An unreadable source fails the build; nothing is
// published. An empty corpus yields an empty mapping.
func (b *Builder) Build(ctx context.Context, source NameSource, extra ...string) (core.Mapping, error) {
	if source == nil {
		return nil, ErrNameSourceRequired
	}

	raw, err := source.AllTheoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorpusUnavailable, err)
	}
	raw = append(raw, extra...)

	// Literal frequency over the full corpus, then ordered dedup.
	// Blank names are discarded before bucketing.
	freq := make(map[string]int, len(raw))
	names := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, name := range raw {
		if strings.TrimSpace(name) == "" {
			continue
		}
		freq[name]++
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	if len(names) == 0 {
		return core.Mapping{}, nil
	}

	sigs := b.signatures(names)
	groups := bucketBySignature(names, sigs)
	groups = b.fuzzyMerge(groups)

	m := make(core.Mapping, len(groups))
	for _, group := range groups {
		canonical := chooseCanonical(group, freq)
		variants := make([]string, 0, len(group))
		variants = append(variants, canonical)
		for _, v := range group {
			if v != canonical {
				variants = append(variants, v)
			}
		}
		m[canonical] = variants
	}

	b.logger.Info("canonical mapping built",
		"canonicals", len(m), "names", len(names))
	return m, nil
}

// signatures computes the bucketing signature of every name. Buckets are
// independent, so the per-name work runs on a worker pool.
func (b *Builder) signatures(names []string) []signature {
	sigs := make([]signature, len(names))

	pool, err := ants.NewPool(b.poolSize)
	if err != nil {
		// Degraded but correct: compute inline.
		for i, name := range names {
			sigs[i] = b.signatureOf(name)
		}
		return sigs
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := range names {
		i := i
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			sigs[i] = b.signatureOf(names[i])
		}); submitErr != nil {
			sigs[i] = b.signatureOf(names[i])
			wg.Done()
		}
	}
	wg.Wait()

	return sigs
}

func (b *Builder) signatureOf(name string) signature {
	s := normalizeText(name)
	return signature{
		acronym: latinAcronym(s),
		core:    strippedCore(s, b.suffixes),
	}
}

// bucketBySignature partitions names so that any two sharing a non-empty
// acronym or a non-empty core end up in the same bucket. The partition is a
// union-find closure and therefore independent of input ordering.
func bucketBySignature(names []string, sigs []signature) [][]string {
	parent := make([]int, len(names))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(i, j int) {
		ri, rj := find(i), find(j)
		if ri != rj {
			parent[rj] = ri
		}
	}

	byAcronym := make(map[string]int)
	byCore := make(map[string]int)
	for i, sig := range sigs {
		if sig.acronym != "" {
			if j, ok := byAcronym[sig.acronym]; ok {
				union(i, j)
			} else {
				byAcronym[sig.acronym] = i
			}
		}
		if sig.core != "" {
			if j, ok := byCore[sig.core]; ok {
				union(i, j)
			} else {
				byCore[sig.core] = i
			}
		}
	}

	order := make([]int, 0)
	members := make(map[int][]string)
	for i, name := range names {
		root := find(i)
		if _, ok := members[root]; !ok {
			order = append(order, root)
		}
		members[root] = append(members[root], name)
	}

	groups := make([][]string, 0, len(order))
	for _, root := range order {
		groups = append(groups, members[root])
	}
	return groups
}

// fuzzyMerge merges groups whose members reach the similarity threshold,
// repeating until no further pair qualifies. Iterating to the fixpoint makes
// the final partition the transitive closure of the pairwise relation, which
// is independent of group visitation order.
func (b *Builder) fuzzyMerge(groups [][]string) [][]string {
	merged := groups
	for changed := true; changed; {
		changed = false
		next := make([][]string, 0, len(merged))
		for _, group := range merged {
			placed := false
			for i, candidate := range next {
				if b.anyPairSimilar(group, candidate) {
					next[i] = append(candidate, group...)
					placed = true
					changed = true
					break
				}
			}
			if !placed {
				next = append(next, group)
			}
		}
		merged = next
	}
	return merged
}

func (b *Builder) anyPairSimilar(g1, g2 []string) bool {
	for _, a := range g1 {
		for _, c := range g2 {
			if b.similarity(a, c) >= float64(b.threshold) {
				return true
			}
		}
	}
	return false
}

// similarity is a normalized edit-distance similarity on a 0-100 scale.
func (b *Builder) similarity(a, c string) float64 {
	score, err := edlib.StringsSimilarity(strings.ToLower(a), strings.ToLower(c), edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(score) * 100
}

// chooseCanonical elects the group's canonical name, maximizing in order:
// ideographic character count, rune length, literal corpus frequency, then
// lexicographic order. The order is total, so the choice does not depend on
// how the group was assembled.
func chooseCanonical(group []string, freq map[string]int) string {
	best := ""
	for _, v := range group {
		if best == "" || canonicalLess(best, v, freq) {
			best = v
		}
	}
	return best
}

// canonicalLess reports whether b outranks a in the canonical ordering.
func canonicalLess(a, b string, freq map[string]int) bool {
	if ha, hb := hanCount(a), hanCount(b); ha != hb {
		return ha < hb
	}
	if la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b); la != lb {
		return la < lb
	}
	if fa, fb := freq[a], freq[b]; fa != fb {
		return fa < fb
	}
	return a < b
}
