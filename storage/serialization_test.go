package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/theoria/core"
)

func TestMarshalUnmarshalID(t *testing.T) {
	ids := []core.ID{0, 1, 42, 1<<32 - 1, 1<<63 + 7}
	for _, id := range ids {
		got, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestMarshalUnmarshalCaseRecord(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := &core.CaseRecord{
		Id:         core.IDFromContent("CASE-2024-001"),
		Name:       "小米生态链扩张",
		Code:       "CASE-2024-001",
		Year:       2024,
		Subject:    "战略管理",
		Industry:   "消费电子",
		Keywords:   "生态链,平台,物联网",
		Theories:   []string{"SWOT分析", "波特五力模型", "蓝海战略"},
		Summary:    "围绕生态链战略的案例分析。",
		Vector:     []float32{0.1, -0.25, 0.93, 0},
		InsertedAt: now,
		UpdatedAt:  now.Add(time.Hour),
	}

	got, err := UnmarshalCaseRecord(MarshalCaseRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestMarshalUnmarshalCaseRecord_Minimal(t *testing.T) {
	record := &core.CaseRecord{Name: "bare"}

	got, err := UnmarshalCaseRecord(MarshalCaseRecord(record))
	require.NoError(t, err)

	assert.Equal(t, record.Name, got.Name)
	assert.Empty(t, got.Theories)
	assert.Empty(t, got.Vector)
	assert.True(t, got.InsertedAt.Equal(time.UnixMicro(record.InsertedAt.UnixMicro())))
}

func TestUnmarshalCaseRecord_Truncated(t *testing.T) {
	record := &core.CaseRecord{
		Name:     "truncation probe",
		Theories: []string{"PEST分析"},
		Vector:   []float32{0.5, 0.5},
	}
	data := MarshalCaseRecord(record)

	for _, cut := range []int{1, len(data) / 2, len(data) - 1} {
		_, err := UnmarshalCaseRecord(data[:cut])
		assert.Error(t, err, "cut at %d bytes", cut)
		assert.ErrorIs(t, err, ErrSerializationFailed)
	}
}
