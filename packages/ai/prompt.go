package ai

import (
	"fmt"
	"sort"
	"strings"
)

// RepoFacts is everything gathered about a repository before the LLM call.
type RepoFacts struct {
	FullName         string
	Description      string
	PrimaryLanguage  string
	Languages        map[string]string
	FileCount        int
	SampleFiles      []string
	ComplexityScore  float64
	ComplexityLevel  string
	RecommendedStart string
	ContributorCount int
	ActiveIssues     int
	CommunityScore   float64
}

func BuildAnalysisPrompt(facts RepoFacts) string {
	description := facts.Description
	if description == "" {
		description = "No description provided."
	}

	names := make([]string, 0, len(facts.Languages))
	for name := range facts.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	languages := ""
	for _, name := range names {
		languages += fmt.Sprintf("- %s: %s\n", name, facts.Languages[name])
	}
	if languages == "" {
		languages = "- Unknown\n"
	}

	files := ""
	for _, f := range facts.SampleFiles {
		files += fmt.Sprintf("- %s\n", f)
	}

	prompt := fmt.Sprintf(`You are an expert software mentor helping a developer get started with an unfamiliar codebase.

# Repository
**Name:** %s
**Description:** %s
**Primary Language:** %s

**Languages:**
%s
# Structure
Files listed: %d
Sample files:
%s
# Metrics
- Complexity: %.1f/10 (%s)
- Recommended starting file: %s
- Contributors: %d
- Active issues: %d
- Community score: %.1f/10

# Your Task
Respond ONLY with a JSON object in the following format:
{
  "ai_summary": "Two or three sentences describing what the project does and how it is organised",
  "tech_insights": ["insight about the technology stack", "..."],
  "learning_path": ["first step for a newcomer", "second step", "..."],
  "patterns": ["architectural or design pattern in use", "..."],
  "community_tips": ["how to start contributing", "..."]
}

Keep each list to at most five short entries.`,
		facts.FullName,
		description,
		facts.PrimaryLanguage,
		languages,
		facts.FileCount,
		files,
		facts.ComplexityScore,
		facts.ComplexityLevel,
		facts.RecommendedStart,
		facts.ContributorCount,
		facts.ActiveIssues,
		facts.CommunityScore,
	)

	return strings.TrimSpace(prompt)
}
