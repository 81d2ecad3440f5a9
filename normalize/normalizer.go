package normalize

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/theoria/core"
)

// Normalizer maps theory-name surface forms to canonical names.
// It is safe for concurrent use; Load and LoadArtifact may run concurrently
// with lookups, but callers must serialize writers themselves.
type Normalizer struct {
	snapshot atomic.Pointer[snapshot]
	builtin  core.Mapping
	logger   *slog.Logger

	// Guards snapshot rebuilds (single-writer discipline).
	mu sync.Mutex
}

// snapshot is an immutable view of the reverse index. It is replaced
// wholesale on reload, never mutated in place.
type snapshot struct {
	reverse map[string]string // lookup key -> canonical
	dynamic core.Mapping
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(n *Normalizer) {
		if logger == nil {
			logger = slog.Default()
		}
		n.logger = logger
	}
}

// WithBuiltinTable replaces the built-in fallback table.
// Intended for tests and for deployments with a different base vocabulary.
func WithBuiltinTable(m core.Mapping) Option {
	return func(n *Normalizer) {
		n.builtin = m
	}
}

// NewNormalizer creates a Normalizer seeded with the built-in table only.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		builtin: BuiltinMapping(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.Load(nil)
	return n
}

// lookupKey produces the case-insensitive, whitespace-collapsed index key.
func lookupKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Load rebuilds the reverse index from the given dynamic mapping layered over
// the built-in table and publishes it atomically. A nil mapping leaves only
// the built-in table active.
func (n *Normalizer) Load(dynamic core.Mapping) {
	n.mu.Lock()
	defer n.mu.Unlock()

	reverse := make(map[string]string)

	// Dynamic entries win over built-in ones for the same variant key.
	for canonical, variants := range dynamic {
		reverse[lookupKey(canonical)] = canonical
		for _, v := range variants {
			reverse[lookupKey(v)] = canonical
		}
	}
	for canonical, variants := range n.builtin {
		keys := make([]string, 0, len(variants)+1)
		keys = append(keys, lookupKey(canonical))
		for _, v := range variants {
			keys = append(keys, lookupKey(v))
		}
		for _, key := range keys {
			if _, taken := reverse[key]; !taken {
				reverse[key] = canonical
			}
		}
	}

	dyn := make(core.Mapping, len(dynamic))
	for canonical, variants := range dynamic {
		dyn[canonical] = append([]string(nil), variants...)
	}

	n.snapshot.Store(&snapshot{reverse: reverse, dynamic: dyn})
	n.logger.Debug("canonical mapping published",
		"canonicals", len(dyn)+len(n.builtin), "variants", len(reverse))
}

// LoadArtifact loads the mapping artifact at path and publishes it.
// A missing or malformed artifact is recovered locally: the normalizer falls
// back to the built-in table and the condition is logged, never returned.
func (n *Normalizer) LoadArtifact(path string) {
	mapping, err := ReadArtifact(path)
	if err != nil {
		n.logger.Warn("mapping artifact unavailable, using built-in table",
			"path", path, "err", err)
		n.Load(nil)
		return
	}
	n.Load(mapping)
}

// Normalize resolves a surface form to its canonical name.
// Unknown names are returned unchanged.
func (n *Normalizer) Normalize(name string) string {
	snap := n.snapshot.Load()
	if canonical, ok := snap.reverse[lookupKey(name)]; ok {
		return canonical
	}
	return name
}

// NormalizeList resolves each name and deduplicates the canonicals,
// preserving first-seen order.
func (n *Normalizer) NormalizeList(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		canonical := n.Normalize(name)
		if !seen[canonical] {
			seen[canonical] = true
			result = append(result, canonical)
		}
	}
	return result
}

// VariantsOf returns all known surface forms of a canonical name, including
// the canonical itself. An unknown canonical yields just itself.
func (n *Normalizer) VariantsOf(canonical string) []string {
	snap := n.snapshot.Load()

	group, ok := snap.dynamic[canonical]
	if !ok {
		group = n.builtin[canonical]
	}

	variants := make([]string, 0, len(group)+1)
	seen := make(map[string]bool, len(group)+1)
	for _, v := range append(append([]string(nil), group...), canonical) {
		if !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}
	return variants
}

// Canonicals returns all known canonical names, sorted.
func (n *Normalizer) Canonicals() []string {
	snap := n.snapshot.Load()

	seen := make(map[string]bool)
	for canonical := range snap.dynamic {
		seen[canonical] = true
	}
	for canonical := range n.builtin {
		seen[canonical] = true
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats describes the currently published mapping.
type Stats struct {
	Canonicals int
	Variants   int
	Dynamic    bool // true when a dynamic mapping is loaded
}

// Stats returns counts for the currently published snapshot.
func (n *Normalizer) Stats() Stats {
	snap := n.snapshot.Load()
	return Stats{
		Canonicals: len(n.Canonicals()),
		Variants:   len(snap.reverse),
		Dynamic:    len(snap.dynamic) > 0,
	}
}
