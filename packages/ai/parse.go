package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"codesensei/types"
)

// ErrNoJSON is returned when a completion contains no JSON object.
var ErrNoJSON = errors.New("no JSON object in AI response")

// maxErrorText bounds the error text carried by a placeholder analysis.
const maxErrorText = 200

// ExtractJSON returns the text between the first '{' and the last '}'.
func ExtractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}

// ParseAnalysis decodes the JSON object embedded in a completion. Missing
// lists come back empty rather than nil.
func ParseAnalysis(text string) (types.AIAnalysis, error) {
	raw, err := ExtractJSON(text)
	if err != nil {
		return types.AIAnalysis{}, err
	}

	var analysis types.AIAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return types.AIAnalysis{}, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if strings.TrimSpace(analysis.Summary) == "" {
		return types.AIAnalysis{}, fmt.Errorf("failed to parse AI response: missing ai_summary")
	}
	return normalize(analysis), nil
}

// Placeholder is returned in place of an analysis when the LLM call failed.
func Placeholder(err error) types.AIAnalysis {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	if len(msg) > maxErrorText {
		msg = msg[:maxErrorText] + "..."
	}
	return normalize(types.AIAnalysis{
		Summary: "AI analysis unavailable: " + msg,
	})
}

// Fallback builds a plain summary from the gathered facts. It is used when
// no LLM is configured.
func Fallback(facts RepoFacts) types.AIAnalysis {
	return normalize(types.AIAnalysis{
		Summary: fmt.Sprintf(
			"The repository %s is primarily written in %s. Key structure includes %d files. A good starting point for learning is %s.",
			facts.FullName, facts.PrimaryLanguage, facts.FileCount, facts.RecommendedStart),
		LearningPath: []string{"Start with " + facts.RecommendedStart},
	})
}

func normalize(a types.AIAnalysis) types.AIAnalysis {
	if a.TechInsights == nil {
		a.TechInsights = []string{}
	}
	if a.LearningPath == nil {
		a.LearningPath = []string{}
	}
	if a.Patterns == nil {
		a.Patterns = []string{}
	}
	if a.CommunityTips == nil {
		a.CommunityTips = []string{}
	}
	return a
}
