package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLatinAcronym(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"SWOT分析", "SWOT"},
		{"swot分析", "SWOT"},
		{"PEST Analysis", "PEST"},
		{"Boston Matrix", "BOSTON"},
		{"波特五力模型", ""},
		{"Porter's Five Forces", "PORTER"}, // first 2-6 letter token, no all-caps present
		{"4P营销理论", ""},                  // single letter, too short
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, latinAcronym(normalizeText(tt.input)))
		})
	}
}

func TestStrippedCore(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"波特五力模型", "波特五力"},
		{"波特五力分析", "波特五力"},
		{"SWOT分析", "SWOT"},
		{"价值链 理论", "价值链"},
		{"蓝海战略", "蓝海"},
		{"长尾效应", "长尾效应"}, // 效应 is not in the suffix list
		{"（精益创业）", "精益创业"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, strippedCore(tt.input, defaultSuffixWords))
		})
	}
}

func TestStrippedCore_EachSuffixOnce(t *testing.T) {
	// Suffixes are stripped at most once each, in list order.
	assert.Equal(t, "竞争", strippedCore("竞争分析模型", defaultSuffixWords))
	assert.Equal(t, "模型", strippedCore("模型模型", defaultSuffixWords))
}

func TestHanCount(t *testing.T) {
	assert.Equal(t, 2, hanCount("SWOT分析"))
	assert.Equal(t, 6, hanCount("波特五力模型"))
	assert.Equal(t, 0, hanCount("PEST Analysis"))
	assert.Equal(t, 0, hanCount(""))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "SWOT 分析", normalizeText("  SWOT　 分析 "))
	assert.Equal(t, "(精益创业)", normalizeText("（精益创业）"))
}
