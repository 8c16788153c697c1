package analysis

import (
	"testing"

	"codesensei/packages/config"
	"codesensei/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorers(t *testing.T) []ComplexityScorer {
	t.Helper()
	scoring := config.Default().Scoring

	basic, err := NewComplexityScorer("basic", scoring)
	require.NoError(t, err)
	weighted, err := NewComplexityScorer("weighted", scoring)
	require.NoError(t, err)
	return []ComplexityScorer{basic, weighted}
}

func TestNewComplexityScorer(t *testing.T) {
	scoring := config.Default().Scoring

	for strategy, want := range map[string]string{
		"basic":    "basic",
		"BASIC":    "basic",
		"weighted": "weighted",
		"enhanced": "weighted",
		"":         "weighted",
	} {
		s, err := NewComplexityScorer(strategy, scoring)
		require.NoError(t, err, strategy)
		assert.Equal(t, want, s.Name(), strategy)
	}

	_, err := NewComplexityScorer("fancy", scoring)
	assert.Error(t, err)
}

func TestBasicComplexity(t *testing.T) {
	s := BasicComplexity{}

	assert.Equal(t, 0.0, s.Score(nil, 0))
	assert.Equal(t, 2.5, s.Score(types.LanguageStats{"Go": 1}, 50))
	assert.Equal(t, 4.0, s.Score(types.LanguageStats{"Go": 1, "Shell": 1}, 0))
	assert.Equal(t, 10.0, s.Score(types.LanguageStats{"A": 1, "B": 1, "C": 1, "D": 1, "E": 1, "F": 1}, 0))
}

func TestWeightedComplexity(t *testing.T) {
	s := WeightedComplexity{
		Weights:       map[string]float64{"Go": 2.0, "Markdown": 0.3},
		DefaultWeight: 1.0,
	}

	// 0.5 + 2.0*0.3 + (100/50)*2
	assert.Equal(t, 5.1, s.Score(types.LanguageStats{"Go": 10}, 100))
	// unknown language uses the default weight: 0.5 + 0.3
	assert.Equal(t, 0.8, s.Score(types.LanguageStats{"Zig": 1}, 0))
	// file term is capped at 10 points
	assert.Equal(t, 10.0, s.Score(types.LanguageStats{"Go": 1}, 1000))
}

func TestComplexityMonotoneInFileCount(t *testing.T) {
	langs := types.LanguageStats{"Go": 1000, "Shell": 10}

	for _, s := range scorers(t) {
		prev := -1.0
		for files := 0; files <= 2000; files += 25 {
			score := s.Score(langs, files)
			assert.GreaterOrEqual(t, score, prev, "%s at %d files", s.Name(), files)
			assert.LessOrEqual(t, score, maxScore, s.Name())
			prev = score
		}
	}
}

func TestComplexitySaturates(t *testing.T) {
	langs := types.LanguageStats{}
	for _, name := range []string{"C", "C++", "Rust", "Go", "Python", "Shell", "Java", "HTML"} {
		langs[name] = 1
	}

	for _, s := range scorers(t) {
		assert.Equal(t, 10.0, s.Score(langs, 100000), s.Name())
	}
}

func TestComplexityLevel(t *testing.T) {
	scoring := config.Default().Scoring

	tests := []struct {
		score float64
		want  string
	}{
		{0, "Beginner"},
		{2.9, "Beginner"},
		{3.0, "Intermediate"},
		{5.9, "Intermediate"},
		{6.0, "Advanced"},
		{7.9, "Advanced"},
		{8.0, "Expert"},
		{10.0, "Expert"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComplexityLevel(tt.score, scoring.Levels, scoring.TopLevel), "score %v", tt.score)
	}
}

func TestCommunityScore(t *testing.T) {
	assert.Equal(t, 0.0, CommunityScore(nil, nil))

	ten := make([]types.ContributorSummary, 10)
	assert.Equal(t, 5.0, CommunityScore(ten, nil))

	issues := []types.IssueSummary{{Comments: 12}, {Comments: 3}}
	assert.Equal(t, 1.5, CommunityScore(nil, issues))
	assert.Equal(t, 6.5, CommunityScore(ten, issues))

	busy := []types.IssueSummary{{Comments: 400}}
	assert.Equal(t, 10.0, CommunityScore(make([]types.ContributorSummary, 30), busy))
}

func TestIssueEngagement(t *testing.T) {
	assert.Equal(t, 0, IssueEngagement(nil))
	assert.Equal(t, 15, IssueEngagement([]types.IssueSummary{{Comments: 12}, {Comments: 3}}))
}

func TestStartingPoint(t *testing.T) {
	scoring := config.Default().Scoring
	recommend := func(files []string, lang string) string {
		return StartingPoint(files, lang, scoring.StartingPoints, scoring.DefaultStartingPoint)
	}

	assert.Equal(t, "README.md", recommend([]string{"/README.md", "/app.py"}, "Python"))
	assert.Equal(t, "README.md", recommend(nil, "Python"))
	assert.Equal(t, "README.md", recommend(nil, "Unknown"))

	// candidates are tried in order, files in any order
	assert.Equal(t, "requirements.txt", recommend([]string{"/app.py", "/requirements.txt"}, "Python"))
	// substring match
	assert.Equal(t, "main.go", recommend([]string{"/cmd/server/main.go"}, "Go"))
	assert.Equal(t, "cmd/", recommend([]string{"/cmd/server/run.go"}, "Go"))
	// no candidate matches
	assert.Equal(t, "/lib/core.ex", recommend([]string{"/lib/core.ex", "/mix.exs"}, "Elixir"))
	assert.Equal(t, "/src/x.rs", recommend([]string{"/src/x.rs"}, "Rust"))
}

func TestRankLanguages(t *testing.T) {
	langs := types.LanguageStats{"Shell": 10, "Go": 500, "C": 500, "Python": 80}

	assert.Equal(t, []string{"C", "Go", "Python", "Shell"}, RankLanguages(langs))
	assert.Equal(t, "C", PrimaryLanguage(langs))
	assert.Equal(t, []string{"C", "Go"}, TopLanguages(langs, 2))
	assert.Equal(t, UnknownLanguage, PrimaryLanguage(nil))
	assert.Empty(t, TopLanguages(nil, maxTopLanguages))
}

func TestLanguagePercentages(t *testing.T) {
	got := LanguagePercentages(types.LanguageStats{"Go": 750, "Shell": 250})
	assert.Equal(t, map[string]string{"Go": "75.0%", "Shell": "25.0%"}, got)

	third := LanguagePercentages(types.LanguageStats{"A": 1, "B": 2})
	assert.Equal(t, "33.3%", third["A"])
	assert.Equal(t, "66.7%", third["B"])

	assert.Empty(t, LanguagePercentages(types.LanguageStats{"Go": 0}))
}
