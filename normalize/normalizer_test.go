package normalize

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/core"
)

func TestNormalize_Builtin(t *testing.T) {
	n := NewNormalizer()

	tests := []struct {
		input    string
		expected string
	}{
		{"SWOT", "SWOT分析"},
		{"swot", "SWOT分析"},
		{"  SWOT   Analysis ", "SWOT分析"},
		{"五力模型", "波特五力模型"},
		{"Porter's Five Forces", "波特五力模型"},
		{"4Ps", "4P营销理论"},
		{"从未见过的理论", "从未见过的理论"}, // unknown passes through
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := NewNormalizer()
	inputs := []string{"SWOT", "swot分析", "波特五力", "unknown theory", "长尾"}
	for _, input := range inputs {
		once := n.Normalize(input)
		assert.Equal(t, once, n.Normalize(once), "normalize must be idempotent for %q", input)
	}
}

func TestNormalizeList(t *testing.T) {
	n := NewNormalizer()

	t.Run("dedups variants preserving first-seen order", func(t *testing.T) {
		result := n.NormalizeList([]string{"SWOT", "波特五力", "swot分析", "SWOT Analysis"})
		assert.Equal(t, []string{"SWOT分析", "波特五力模型"}, result)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, n.NormalizeList(nil))
		assert.Empty(t, n.NormalizeList([]string{}))
	})
}

func TestVariantsOf(t *testing.T) {
	n := NewNormalizer()

	t.Run("known canonical includes itself", func(t *testing.T) {
		variants := n.VariantsOf("SWOT分析")
		assert.Contains(t, variants, "SWOT分析")
		assert.Contains(t, variants, "SWOT")
		assert.Contains(t, variants, "swot")
	})

	t.Run("unknown canonical yields itself", func(t *testing.T) {
		assert.Equal(t, []string{"未知理论"}, n.VariantsOf("未知理论"))
	})
}

func TestLoad_DynamicPrecedence(t *testing.T) {
	n := NewNormalizer()

	// Dynamic mapping reassigns a built-in variant key.
	n.Load(core.Mapping{
		"态势分析法": {"态势分析法", "SWOT"},
	})

	assert.Equal(t, "态势分析法", n.Normalize("SWOT"))
	// Built-in keys absent from the dynamic mapping still resolve.
	assert.Equal(t, "SWOT分析", n.Normalize("swot分析"))

	stats := n.Stats()
	assert.True(t, stats.Dynamic)
	assert.Greater(t, stats.Variants, 0)
}

func TestLoadArtifact(t *testing.T) {
	t.Run("missing artifact falls back to builtin", func(t *testing.T) {
		n := NewNormalizer()
		n.LoadArtifact(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Equal(t, "SWOT分析", n.Normalize("SWOT"))
		assert.False(t, n.Stats().Dynamic)
	})

	t.Run("malformed artifact falls back to builtin", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.yaml")
		require.NoError(t, writeFile(path, "mappings: [not, a, map"))

		n := NewNormalizer()
		n.LoadArtifact(path)
		assert.Equal(t, "SWOT分析", n.Normalize("SWOT"))
	})

	t.Run("valid artifact is published", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mapping.yaml")
		mapping := core.Mapping{"动态能力理论": {"动态能力理论", "动态能力", "Dynamic Capabilities"}}
		require.NoError(t, WriteArtifact(path, mapping))

		n := NewNormalizer()
		n.LoadArtifact(path)
		assert.Equal(t, "动态能力理论", n.Normalize("dynamic capabilities"))
		assert.True(t, n.Stats().Dynamic)
	})
}

func TestConcurrentReadsDuringReload(t *testing.T) {
	n := NewNormalizer()
	dynamic := core.Mapping{"态势分析法": {"态势分析法", "SWOT"}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				// Either the old or the new canonical is acceptable, but
				// lookups must never see a half-built index.
				got := n.Normalize("SWOT")
				assert.Contains(t, []string{"SWOT分析", "态势分析法"}, got)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		if i%2 == 0 {
			n.Load(dynamic)
		} else {
			n.Load(nil)
		}
	}
	wg.Wait()
}
