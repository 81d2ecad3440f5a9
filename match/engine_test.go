package match

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/normalize"
	"github.com/poiesic/theoria/storage"
	"github.com/poiesic/theoria/storage/badger"
)

func setupEngine(t *testing.T, cases ...*core.CaseRecord) (*Engine, storage.CaseRepository) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	if len(cases) > 0 {
		_, err = repo.AddCases(context.Background(), cases...)
		require.NoError(t, err)
	}

	engine, err := NewEngine(normalize.NewNormalizer(), repo)
	require.NoError(t, err)
	return engine, repo
}

func caseWith(name, code string, theories ...string) *core.CaseRecord {
	return &core.CaseRecord{Name: name, Code: code, Theories: theories}
}

func TestMatch_DedupAcrossVariants(t *testing.T) {
	// One case recorded under two spellings of the same theory counts once.
	engine, _ := setupEngine(t,
		caseWith("案例一", "C-001", "SWOT", "swot分析"),
		caseWith("案例二", "C-002", "SWOT分析"),
	)

	result, err := engine.Match(context.Background(), []string{"SWOT分析"})
	require.NoError(t, err)

	m := result.Normalized["SWOT分析"]
	require.NotNil(t, m)
	assert.Equal(t, "SWOT分析", m.Theory)
	assert.Equal(t, 2, m.UsageCount)
	assert.Equal(t, core.MatchNormalized, m.Confidence)
	assert.Len(t, m.Cases, 2)
}

func TestMatch_ResolvesVariantInput(t *testing.T) {
	engine, _ := setupEngine(t, caseWith("案例一", "C-001", "波特五力模型"))

	result, err := engine.Match(context.Background(), []string{"波特五力"})
	require.NoError(t, err)

	m := result.Normalized["波特五力"]
	require.NotNil(t, m)
	assert.Equal(t, "波特五力模型", m.Theory)
	assert.Equal(t, 1, m.UsageCount)
}

func TestMatch_FuzzyFallback(t *testing.T) {
	// "核心竞争力" has no mapping entry and no direct usage, but substring
	// containment finds the stored label.
	engine, _ := setupEngine(t, caseWith("案例一", "C-001", "核心竞争力理论"))

	result, err := engine.Match(context.Background(), []string{"核心竞争力"})
	require.NoError(t, err)

	assert.Empty(t, result.Normalized)
	m := result.Fuzzy["核心竞争力"]
	require.NotNil(t, m)
	assert.Equal(t, "核心竞争力理论", m.Theory)
	assert.Equal(t, 1, m.UsageCount)
	assert.Equal(t, core.MatchFuzzy, m.Confidence)
}

func TestMatch_Unmatched(t *testing.T) {
	engine, _ := setupEngine(t, caseWith("案例一", "C-001", "SWOT分析"))

	result, err := engine.Match(context.Background(), []string{"量子管理学"})
	require.NoError(t, err)

	assert.Empty(t, result.Normalized)
	assert.Empty(t, result.Fuzzy)
	assert.Equal(t, []string{"量子管理学"}, result.Unmatched)
	assert.Equal(t, map[string]int{"量子管理学": 0}, result.UsageCounts())
}

func TestMatch_SkipsBlankNames(t *testing.T) {
	engine, _ := setupEngine(t)

	result, err := engine.Match(context.Background(), []string{"", "  ", "　"})
	require.NoError(t, err)
	assert.Empty(t, result.Normalized)
	assert.Empty(t, result.Fuzzy)
	assert.Empty(t, result.Unmatched)
}

func TestMatch_RefreshCorpus(t *testing.T) {
	engine, repo := setupEngine(t)
	ctx := context.Background()

	// Prime the corpus cache with an empty store.
	result, err := engine.Match(ctx, []string{"核心竞争力"})
	require.NoError(t, err)
	assert.Len(t, result.Unmatched, 1)

	_, err = repo.AddCases(ctx, caseWith("案例一", "C-001", "核心竞争力理论"))
	require.NoError(t, err)

	// Cached corpus is stale until refreshed.
	result, err = engine.Match(ctx, []string{"核心竞争力"})
	require.NoError(t, err)
	assert.Len(t, result.Unmatched, 1)

	engine.Refresh()
	result, err = engine.Match(ctx, []string{"核心竞争力"})
	require.NoError(t, err)
	assert.Contains(t, result.Fuzzy, "核心竞争力")
}

type failingStore struct {
	storage.CaseRepository
	err error
}

func (f *failingStore) GetCasesUsingTheory(ctx context.Context, name string) ([]*core.CaseRecord, error) {
	return nil, f.err
}

func (f *failingStore) AllTheoryNames(ctx context.Context) ([]string, error) {
	return nil, f.err
}

func TestMatch_StoreFailurePropagates(t *testing.T) {
	engine, err := NewEngine(normalize.NewNormalizer(), &failingStore{err: errors.New("disk gone")})
	require.NoError(t, err)

	_, err = engine.Match(context.Background(), []string{"SWOT分析"})
	assert.ErrorIs(t, err, ErrCaseStore)
}

func TestThresholds_Classify(t *testing.T) {
	thresholds := DefaultThresholds()

	expected := map[int]core.FrequencyTier{
		0: core.TierNovel,
		1: core.TierNovel,
		2: core.TierNovel,
		3: core.TierCommon,
		4: core.TierCommon,
		5: core.TierHighFrequency,
		6: core.TierHighFrequency,
	}
	for count, tier := range expected {
		assert.Equal(t, tier, thresholds.Classify(count), "count %d", count)
	}
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())
	assert.ErrorIs(t, Thresholds{NovelMax: -1, HighFreqMin: 5}.Validate(), ErrInvalidThresholds)
	assert.ErrorIs(t, Thresholds{NovelMax: 5, HighFreqMin: 5}.Validate(), ErrInvalidThresholds)
}

func TestFuzzyCandidate(t *testing.T) {
	corpus := []string{"核心竞争力理论", "SWOT分析", "PEST Analysis"}

	t.Run("substring containment", func(t *testing.T) {
		hit, ok := fuzzyCandidate("核心竞争力", corpus)
		require.True(t, ok)
		assert.Equal(t, "核心竞争力理论", hit)
	})

	t.Run("ideographic core", func(t *testing.T) {
		hit, ok := fuzzyCandidate("SWOT·分析", corpus)
		require.True(t, ok)
		assert.Equal(t, "SWOT分析", hit)
	})

	t.Run("latin tokens", func(t *testing.T) {
		hit, ok := fuzzyCandidate("pest analysis", corpus)
		require.True(t, ok)
		assert.Equal(t, "PEST Analysis", hit)
	})

	t.Run("no candidate", func(t *testing.T) {
		_, ok := fuzzyCandidate("量子管理学", corpus)
		assert.False(t, ok)
	})
}
