package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.jsonl")
	content := `{"name":"海尔转型","code":"C-001","year":2023,"subject":"战略管理","industry":"制造业","keywords":"平台,生态","theories":["SWOT分析","波特五力模型"],"summary":"组织平台化案例"}

{"name":"字节跳动出海","code":"C-002","year":2022,"theories":["蓝海战略"]}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	records, err := LoadJSONL(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "海尔转型", records[0].Name)
	assert.Equal(t, []string{"SWOT分析", "波特五力模型"}, records[0].Theories)
	assert.Equal(t, 2023, records[0].Year)
	assert.Equal(t, "字节跳动出海", records[1].Name)
}

func TestLoadJSONL_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"name\":\"ok\"}\nnot json\n"), 0644))

	_, err := LoadJSONL(path)
	assert.ErrorIs(t, err, ErrMalformedInput)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadJSONL_MissingFile(t *testing.T) {
	_, err := LoadJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.ErrorIs(t, err, ErrMalformedInput)
}
