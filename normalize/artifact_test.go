package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/core"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0644)
}

func TestWriteReadArtifact_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "mapping.yaml")
	mapping := core.Mapping{
		"SWOT分析": {"SWOT分析", "SWOT", "swot"},
		"蓝海战略":   {"蓝海战略", "Blue Ocean Strategy"},
	}

	require.NoError(t, WriteArtifact(path, mapping))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, mapping, loaded)
}

func TestReadArtifact_BareDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, writeFile(path, "SWOT分析:\n  - SWOT分析\n  - SWOT\n"))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"SWOT分析", "SWOT"}, loaded["SWOT分析"])
}

func TestReadArtifact_DropsBlankEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, writeFile(path, "mappings:\n  SWOT分析:\n    - SWOT\n    - \"  \"\n  \"\": [ghost]\n"))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, core.Mapping{"SWOT分析": {"SWOT"}}, loaded)
}

func TestReadArtifact_Missing(t *testing.T) {
	_, err := ReadArtifact(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteArtifact_AtomicReplace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, WriteArtifact(path, core.Mapping{"旧理论": {"旧理论"}}))
	require.NoError(t, WriteArtifact(path, core.Mapping{"新理论": {"新理论"}}))

	loaded, err := ReadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, core.Mapping{"新理论": {"新理论"}}, loaded)

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
