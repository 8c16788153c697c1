package analysis

import (
	"fmt"
	"sort"

	"codesensei/types"
)

// UnknownLanguage is reported when a repository has no language statistics.
const UnknownLanguage = "Unknown"

// maxTopLanguages caps TechAnalysis.TopLanguages.
const maxTopLanguages = 5

// RankLanguages returns language names by descending byte count. Equal
// counts are ordered alphabetically so the result is deterministic.
func RankLanguages(langs types.LanguageStats) []string {
	names := make([]string, 0, len(langs))
	for name := range langs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if langs[names[i]] != langs[names[j]] {
			return langs[names[i]] > langs[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// PrimaryLanguage returns the language with the most bytes, the
// alphabetically first one on ties, or UnknownLanguage when langs is empty.
func PrimaryLanguage(langs types.LanguageStats) string {
	ranked := RankLanguages(langs)
	if len(ranked) == 0 {
		return UnknownLanguage
	}
	return ranked[0]
}

// TopLanguages returns at most n languages by descending byte count.
func TopLanguages(langs types.LanguageStats, n int) []string {
	ranked := RankLanguages(langs)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// LanguagePercentages formats each language's share of the total as "12.3%".
// The result is empty when the total is zero.
func LanguagePercentages(langs types.LanguageStats) map[string]string {
	out := make(map[string]string, len(langs))
	total := langs.Total()
	if total <= 0 {
		return out
	}
	for name, n := range langs {
		out[name] = fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
	}
	return out
}
