package types

// RepositoryRef identifies a repository on the source-control host.
type RepositoryRef struct {
	Owner string
	Name  string
}

func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// LanguageStats maps a language name to its byte count.
type LanguageStats map[string]int

// Total returns the sum of all byte counts.
func (l LanguageStats) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

type ContributorSummary struct {
	Username      string `json:"username"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
	ProfileURL    string `json:"profile_url"`
}

type IssueSummary struct {
	Number    int     `json:"number"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Comments  int     `json:"comments"`
	CreatedAt *string `json:"created_at"`
	State     string  `json:"state"`
}

// RepoInfo is the repository metadata block of the report.
type RepoInfo struct {
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Stars         int      `json:"stars"`
	Forks         int      `json:"forks"`
	URL           string   `json:"url"`
	OpenIssues    int      `json:"open_issues"`
	Watchers      int      `json:"watchers"`
	DefaultBranch string   `json:"default_branch,omitempty"`
	Topics        []string `json:"topics,omitempty"`
}

type TechAnalysis struct {
	Languages       map[string]string `json:"languages"`
	PrimaryLanguage string            `json:"primary_language"`
	FileCount       int               `json:"file_count"`
	SampleStructure []string          `json:"sample_structure"`
	TopLanguages    []string          `json:"top_languages"`
}

type CommunityData struct {
	TopContributors  []ContributorSummary `json:"top_contributors"`
	ActiveIssues     []IssueSummary       `json:"active_issues"`
	ContributorCount int                  `json:"contributor_count"`
	IssueEngagement  int                  `json:"issue_engagement"`
}

type LearningMetrics struct {
	ComplexityScore    float64 `json:"complexity_score"`
	ComplexityLevel    string  `json:"complexity_level"`
	ComplexityStrategy string  `json:"complexity_strategy"`
	RecommendedStart   string  `json:"recommended_start"`
	CommunityScore     float64 `json:"community_score"`
}

// AIAnalysis is the structured summary requested from the language model.
type AIAnalysis struct {
	Summary       string   `json:"ai_summary"`
	TechInsights  []string `json:"tech_insights"`
	LearningPath  []string `json:"learning_path"`
	Patterns      []string `json:"patterns"`
	CommunityTips []string `json:"community_tips"`
}

type DebugInfo struct {
	RequestID          string   `json:"request_id,omitempty"`
	FilesListed        int      `json:"files_listed"`
	SkippedDirectories []string `json:"skipped_directories"`
	AIProvider         string   `json:"ai_provider,omitempty"`
	AIError            string   `json:"ai_error,omitempty"`
	Cached             bool     `json:"cached"`
	DurationMs         int64    `json:"duration_ms"`
}

// AnalysisResult is the full report returned by /api/analyze.
type AnalysisResult struct {
	Status          string          `json:"status"`
	RepoInfo        RepoInfo        `json:"repo_info"`
	TechAnalysis    TechAnalysis    `json:"tech_analysis"`
	CommunityData   CommunityData   `json:"community_data"`
	LearningMetrics LearningMetrics `json:"learning_metrics"`
	AIAnalysis      AIAnalysis      `json:"ai_analysis"`
	HasAIAnalysis   bool            `json:"has_ai_analysis"`
	DebugInfo       DebugInfo       `json:"debug_info"`
}

// ErrorEnvelope is returned in place of a result when a request fails.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
