package normalize

import "github.com/poiesic/theoria/core"

// builtinMapping is the fallback canonical table used when no mapping
// artifact is available. Entries here lose to the dynamic mapping whenever
// both define the same variant key.
var builtinMapping = core.Mapping{
	"SWOT分析":  {"SWOT分析", "SWOT Analysis", "swot分析", "SWOT", "swot"},
	"波特五力模型":  {"波特五力模型", "波特五力", "波特五力分析", "五力模型", "Porter's Five Forces"},
	"4P营销理论":  {"4P营销理论", "4P", "4P营销", "4P理论", "4Ps", "营销4P"},
	"蓝海战略":    {"蓝海战略", "蓝海理论", "蓝海策略", "Blue Ocean Strategy"},
	"PEST分析":  {"PEST分析", "PEST", "PEST模型", "PEST Analysis"},
	"价值链分析":   {"价值链分析", "价值链", "波特价值链", "价值链理论"},
	"BCG矩阵":   {"BCG矩阵", "BCG", "BCG分析", "Boston Matrix"},
	"平衡计分卡":   {"平衡计分卡", "BSC", "Balanced Scorecard"},
	"商业模式画布":  {"商业模式画布", "BMC", "Business Model Canvas", "商业画布"},
	"精益创业":    {"精益创业", "Lean Startup", "精益创新"},
	"长尾理论":    {"长尾理论", "长尾", "长尾效应", "Long Tail"},
}

// BuiltinMapping returns a copy of the built-in canonical table.
func BuiltinMapping() core.Mapping {
	m := make(core.Mapping, len(builtinMapping))
	for canonical, variants := range builtinMapping {
		m[canonical] = append([]string(nil), variants...)
	}
	return m
}
