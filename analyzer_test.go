package theoria

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/ai/mock"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/normalize"
)

func setupAnalyzer(t *testing.T, opts ...AnalyzerOption) *Analyzer {
	t.Helper()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}

	analyzer, err := NewAnalyzer("", append([]AnalyzerOption{
		WithInMemoryStore(),
		WithEmbedder(embedder),
	}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { analyzer.Close() })
	return analyzer
}

func TestAnalyzeCase(t *testing.T) {
	analyzer := setupAnalyzer(t)
	ctx := context.Background()

	_, err := analyzer.CaseRepository().AddCases(ctx,
		&core.CaseRecord{Name: "案例一", Code: "C-001", Subject: "战略管理",
			Theories: []string{"SWOT"}, Vector: []float32{1, 0}},
		&core.CaseRecord{Name: "案例二", Code: "C-002", Subject: "战略管理",
			Theories: []string{"swot分析"}, Vector: []float32{0.9, 0.436}},
		&core.CaseRecord{Name: "案例三", Code: "C-003",
			Theories: []string{"蓝海战略"}, Vector: []float32{0, 1}},
	)
	require.NoError(t, err)

	report, err := analyzer.AnalyzeCase(ctx, &core.CaseRecord{
		Name:     "新案例",
		Subject:  "战略管理",
		Theories: []string{"SWOT分析"},
	}, 5)
	require.NoError(t, err)

	// Both stored spellings aggregate under the canonical name.
	m := report.Matches["SWOT分析"]
	require.NotNil(t, m)
	assert.Equal(t, 2, m.UsageCount)
	assert.Equal(t, core.TierNovel, m.Tier)

	// Only the two vector-adjacent cases clear the similarity floor, and
	// the theory-sharing one ranks first.
	require.Len(t, report.Similar, 2)
	assert.Equal(t, "案例一", report.Similar[0].Case.Name)
	assert.Greater(t, report.Similar[0].Scores.FinalScore, report.Similar[1].Scores.FinalScore)

	assert.Equal(t, 100.0, report.Innovation.Score)
	assert.Equal(t, []string{"SWOT分析"}, report.Innovation.NovelTheories)
}

func TestAnalyzeCase_RejectsInvalidRecord(t *testing.T) {
	analyzer := setupAnalyzer(t)

	_, err := analyzer.AnalyzeCase(context.Background(), &core.CaseRecord{}, 5)
	assert.ErrorIs(t, err, core.ErrEmptyCaseName)
}

func TestRebuildMapping(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "mapping.yaml")
	analyzer := setupAnalyzer(t, WithMappingArtifact(artifact))
	ctx := context.Background()

	_, err := analyzer.CaseRepository().AddCases(ctx,
		&core.CaseRecord{Name: "案例一", Code: "C-001", Theories: []string{"数字化转型理论"}},
		&core.CaseRecord{Name: "案例二", Code: "C-002", Theories: []string{"数字化转型模型"}},
	)
	require.NoError(t, err)

	built, err := analyzer.RebuildMapping(ctx)
	require.NoError(t, err)

	require.Contains(t, built, "数字化转型理论")
	assert.ElementsMatch(t, []string{"数字化转型理论", "数字化转型模型"}, built["数字化转型理论"])

	// The fresh mapping is live immediately.
	assert.Equal(t, "数字化转型理论", analyzer.Normalizer().Normalize("数字化转型模型"))

	// And persisted for the next startup.
	persisted, err := normalize.ReadArtifact(artifact)
	require.NoError(t, err)
	assert.Contains(t, persisted, "数字化转型理论")
}

func TestIngestThenAnalyze(t *testing.T) {
	analyzer := setupAnalyzer(t)
	ctx := context.Background()

	pipeline, err := analyzer.NewIngestPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	_, err = pipeline.Ingest(ctx, &core.CaseRecord{
		Name:     "海尔转型",
		Code:     "C-001",
		Year:     2023,
		Theories: []string{"SWOT分析"},
	})
	require.NoError(t, err)
	pipeline.Wait()

	result, err := analyzer.MatchTheories(ctx, []string{"SWOT"})
	require.NoError(t, err)
	m := result.Normalized["SWOT"]
	require.NotNil(t, m)
	assert.Equal(t, "SWOT分析", m.Theory)
	assert.Equal(t, 1, m.UsageCount)
}
