package semantic

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/ai/mock"
	"github.com/poiesic/theoria/core"
	"github.com/poiesic/theoria/storage/badger"
)

func TestSimilarCases_ExcludesSelf(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	ctx := context.Background()
	self := &core.CaseRecord{Name: "案例一", Code: "C-001", Vector: []float32{1, 0}}
	other := &core.CaseRecord{Name: "案例二", Code: "C-002", Vector: []float32{0.9, 0.436}}
	far := &core.CaseRecord{Name: "案例三", Code: "C-003", Vector: []float32{0, 1}}
	_, err = repo.AddCases(ctx, self, other, far)
	require.NoError(t, err)

	matcher, err := NewMatcher(repo, mock.NewMockEmbedder())
	require.NoError(t, err)

	matches, err := matcher.SimilarCases(ctx, self, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "案例二", matches[0].Case.Name)
}

func TestSimilarCases_EmbedsWhenNoVector(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	embedder := mock.NewMockEmbedder()
	matcher, err := NewMatcher(repo, embedder)
	require.NoError(t, err)

	_, err = matcher.SimilarCases(context.Background(), &core.CaseRecord{Name: "新案例"}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount())
}

func TestSimilarCases_EmbedderFailurePropagates(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("service down")
	}

	matcher, err := NewMatcher(repo, embedder)
	require.NoError(t, err)

	_, err = matcher.SimilarCases(context.Background(), &core.CaseRecord{Name: "新案例"}, 5)
	assert.ErrorIs(t, err, ErrEmbedding)
}

func TestSimilarity_UsesStoredVectors(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	embedder := mock.NewMockEmbedder()
	matcher, err := NewMatcher(repo, embedder)
	require.NoError(t, err)

	a := &core.CaseRecord{Name: "a", Vector: []float32{1, 0}}
	b := &core.CaseRecord{Name: "b", Vector: []float32{1, 0}}
	sim, err := matcher.Similarity(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-6)
	assert.Zero(t, embedder.CallCount(), "stored vectors need no embedding call")

	c := &core.CaseRecord{Name: "c", Vector: []float32{0, 1}}
	sim, err = matcher.Similarity(context.Background(), a, c)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sim, 1e-6)
}

func TestNewMatcher_RequiresCollaborators(t *testing.T) {
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	defer backend.Close()
	defer repo.Close()

	_, err = NewMatcher(nil, mock.NewMockEmbedder())
	assert.ErrorIs(t, err, ErrRepositoryRequired)

	_, err = NewMatcher(repo, nil)
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestNormalizeVector(t *testing.T) {
	normalized := NormalizeVector([]float32{3, 4})
	assert.InDelta(t, 0.6, normalized[0], 1e-6)
	assert.InDelta(t, 0.8, normalized[1], 1e-6)

	zero := NormalizeVector([]float32{0, 0})
	assert.Equal(t, []float32{0, 0}, zero)

	assert.Empty(t, NormalizeVector(nil))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Zero(t, CosineSimilarity(nil, []float32{1}))
	assert.Zero(t, CosineSimilarity([]float32{0}, []float32{1}))
}
