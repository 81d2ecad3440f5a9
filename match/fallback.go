package match

import (
	"regexp"
	"strings"
)

var (
	hanRunRe   = regexp.MustCompile(`\p{Han}+`)
	latinRunRe = regexp.MustCompile(`[A-Za-z]+`)
)

// fuzzyCandidate scans the known-name corpus for a plausible stand-in for a
// name with no recorded usage. Three passes, cheapest first: substring
// containment, ideographic-core equality, latin-token equality. The first
// hit wins; corpus order decides ties.
func fuzzyCandidate(name string, corpus []string) (string, bool) {
	for _, known := range corpus {
		if known == name {
			continue
		}
		if strings.Contains(known, name) || strings.Contains(name, known) {
			return known, true
		}
	}

	if core := hanCore(name); core != "" {
		for _, known := range corpus {
			if known != name && hanCore(known) == core {
				return known, true
			}
		}
	}

	if latin := latinPart(name); latin != "" {
		for _, known := range corpus {
			if known != name && latinPart(known) == latin {
				return known, true
			}
		}
	}

	return "", false
}

// hanCore concatenates the ideographic runs of a name.
func hanCore(name string) string {
	return strings.Join(hanRunRe.FindAllString(name, -1), "")
}

// latinPart concatenates the latin-letter runs of a name, lowercased.
func latinPart(name string) string {
	return strings.ToLower(strings.Join(latinRunRe.FindAllString(name, -1), ""))
}
