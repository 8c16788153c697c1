package analysis

import "strings"

// StartingPoint suggests a file to read first. Candidates for the primary
// language are tried in order and the first one contained in any listed path
// wins; the match is a substring match, so "main.go" also matches
// "cmd/main.go". Without a match the first listed file is returned, and
// fallback when nothing was listed.
func StartingPoint(files []string, primaryLanguage string, candidates map[string][]string, fallback string) string {
	lookFor, ok := candidates[primaryLanguage]
	if !ok {
		lookFor = []string{fallback}
	}

	for _, candidate := range lookFor {
		for _, f := range files {
			if strings.Contains(f, candidate) {
				return candidate
			}
		}
	}

	if len(files) > 0 {
		return files[0]
	}
	return fallback
}
