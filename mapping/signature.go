package mapping

import (
	"regexp"
	"strings"
)

// defaultSuffixWords are generic trailing words that carry no identity:
// two names differing only by one of these almost always denote the same
// theory.
var defaultSuffixWords = []string{
	"分析法", "分析模型", "分析", "模型", "理论", "矩阵", "策略", "战略", "方法", "体系", "框架", "模式",
}

var (
	latinTokenRe = regexp.MustCompile(`[A-Za-z]+`)
	hanRe        = regexp.MustCompile(`\p{Han}`)
	nonCoreRe    = regexp.MustCompile(`[^\p{Han}A-Za-z0-9]`)
	blankRe      = regexp.MustCompile(`[\s\x{3000}]+`)
)

var punctReplacer = strings.NewReplacer("（", "(", "）", ")", "，", ",", "。", ".")

// signature is the two-part bucketing key for a raw name. Names sharing
// either non-empty component belong in the same bucket.
type signature struct {
	acronym string // short latin token, stable across translation
	core    string // suffix-stripped ideographic/alphanumeric core
}

// normalizeText collapses whitespace (including ideographic spaces) and
// folds full-width punctuation to its ASCII form.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	s = blankRe.ReplaceAllString(s, " ")
	return punctReplacer.Replace(s)
}

// latinAcronym extracts the primary latin abbreviation from a name, such as
// SWOT, PEST or BCG. All-uppercase tokens of 2-6 letters win; otherwise the
// first token of that length is used, uppercased.
func latinAcronym(s string) string {
	tokens := latinTokenRe.FindAllString(s, -1)
	if len(tokens) == 0 {
		return ""
	}
	for _, t := range tokens {
		if len(t) >= 2 && len(t) <= 6 && t == strings.ToUpper(t) {
			return t
		}
	}
	for _, t := range tokens {
		if len(t) >= 2 && len(t) <= 6 {
			return strings.ToUpper(t)
		}
	}
	return ""
}

// strippedCore reduces a name to its identity core: everything that is
// neither ideographic nor alphanumeric is removed, then generic suffix words
// are stripped from the end, each at most once, in list order.
func strippedCore(s string, suffixes []string) string {
	s = normalizeText(s)
	s = nonCoreRe.ReplaceAllString(s, "")
	for _, suffix := range suffixes {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}

// hanCount returns the number of ideographic characters in a string.
func hanCount(s string) int {
	return len(hanRe.FindAllString(s, -1))
}
