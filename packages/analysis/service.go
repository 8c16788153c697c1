package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"codesensei/packages/ai"
	"codesensei/packages/config"
	"codesensei/packages/repository"
	"codesensei/types"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	// ErrMissingGitHubToken is returned before any network call when no
	// GitHub token is configured.
	ErrMissingGitHubToken = errors.New("GitHub token not configured")
	// ErrMissingLLMKey is returned by Chat when no LLM client is configured.
	ErrMissingLLMKey = errors.New("OpenRouter API key not configured")
	// ErrNoMessages is returned by Chat for an empty conversation.
	ErrNoMessages = errors.New("no messages provided")
)

const statusSuccess = "success"

// Service runs the analysis pipeline for one repository per call. It holds no
// per-request state; the optional result cache is safe for concurrent use.
type Service struct {
	cfg    *config.Config
	source repository.Source
	llm    ai.Client
	scorer ComplexityScorer
	cache  *expirable.LRU[string, types.AnalysisResult]
}

// NewService wires the pipeline. llm may be nil, in which case reports carry
// a summary built from the gathered facts.
func NewService(cfg *config.Config, source repository.Source, llm ai.Client) (*Service, error) {
	scorer, err := NewComplexityScorer(cfg.Analysis.ComplexityStrategy, cfg.Scoring)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		source: source,
		llm:    llm,
		scorer: scorer,
	}
	if cfg.Cache.TTL > 0 && cfg.Cache.Size > 0 {
		s.cache = expirable.NewLRU[string, types.AnalysisResult](cfg.Cache.Size, nil, cfg.Cache.TTL)
		slog.Info("Result cache enabled", "size", cfg.Cache.Size, "ttl", cfg.Cache.TTL)
	}
	return s, nil
}

// HasLLM reports whether an LLM client is configured.
func (s *Service) HasLLM() bool { return s.llm != nil }

// Analyze builds the learning report for the repository at url.
func (s *Service) Analyze(ctx context.Context, url string) (*types.AnalysisResult, error) {
	start := time.Now()

	if !s.cfg.HasGitHubToken() {
		return nil, ErrMissingGitHubToken
	}

	ref, err := repository.ParseRepoRef(url)
	if err != nil {
		return nil, err
	}
	key := strings.ToLower(ref.String())

	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			slog.Info("Serving cached analysis", "repo", key)
			cached.DebugInfo.Cached = true
			cached.DebugInfo.DurationMs = time.Since(start).Milliseconds()
			return &cached, nil
		}
	}

	slog.Info("Analyzing repository", "repo", ref.String())

	result, err := s.analyze(ctx, ref)
	if err != nil {
		slog.Error("Repository analysis failed", "repo", ref.String(), "error", err)
		return nil, err
	}
	result.DebugInfo.DurationMs = time.Since(start).Milliseconds()

	if s.cache != nil {
		s.cache.Add(key, *result)
	}

	slog.Info("Repository analysis complete",
		"repo", ref.String(),
		"files", result.TechAnalysis.FileCount,
		"complexity", result.LearningMetrics.ComplexityScore,
		"hasAIAnalysis", result.HasAIAnalysis,
		"durationMs", result.DebugInfo.DurationMs)
	return result, nil
}

func (s *Service) analyze(ctx context.Context, ref types.RepositoryRef) (*types.AnalysisResult, error) {
	info, err := s.source.Repository(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository: %w", err)
	}

	langs, err := s.source.Languages(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}

	root, err := s.source.Contents(ctx, ref, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch root contents: %w", err)
	}

	listing := repository.WalkTree(ctx, repository.Lister(s.source, ref), root, repository.WalkOptions{
		MaxDepth: s.cfg.Analysis.MaxDepth,
		MaxFiles: s.cfg.Analysis.MaxFiles,
	})

	contributors := []types.ContributorSummary{}
	issues := []types.IssueSummary{}
	if s.cfg.Analysis.IncludeCommunity {
		if contributors, err = s.source.Contributors(ctx, ref, s.cfg.Analysis.ContributorLimit); err != nil {
			return nil, fmt.Errorf("failed to fetch contributors: %w", err)
		}
		if issues, err = s.source.ActiveIssues(ctx, ref, s.cfg.Analysis.IssueLimit); err != nil {
			return nil, fmt.Errorf("failed to fetch issues: %w", err)
		}
		if contributors == nil {
			contributors = []types.ContributorSummary{}
		}
		if issues == nil {
			issues = []types.IssueSummary{}
		}
	}

	primary := PrimaryLanguage(langs)
	percentages := LanguagePercentages(langs)
	complexity := s.scorer.Score(langs, len(listing.Files))
	level := ComplexityLevel(complexity, s.cfg.Scoring.Levels, s.cfg.Scoring.TopLevel)
	start := StartingPoint(listing.Files, primary, s.cfg.Scoring.StartingPoints, s.cfg.Scoring.DefaultStartingPoint)
	community := CommunityScore(contributors, issues)

	sample := listing.Files
	if len(sample) > s.cfg.Analysis.SampleSize {
		sample = sample[:s.cfg.Analysis.SampleSize]
	}

	skipped := make([]string, 0, len(listing.Skipped))
	for _, sk := range listing.Skipped {
		skipped = append(skipped, sk.Path)
	}

	result := &types.AnalysisResult{
		Status:   statusSuccess,
		RepoInfo: *info,
		TechAnalysis: types.TechAnalysis{
			Languages:       percentages,
			PrimaryLanguage: primary,
			FileCount:       len(listing.Files),
			SampleStructure: append([]string{}, sample...),
			TopLanguages:    TopLanguages(langs, maxTopLanguages),
		},
		CommunityData: types.CommunityData{
			TopContributors:  contributors,
			ActiveIssues:     issues,
			ContributorCount: len(contributors),
			IssueEngagement:  IssueEngagement(issues),
		},
		LearningMetrics: types.LearningMetrics{
			ComplexityScore:    complexity,
			ComplexityLevel:    level,
			ComplexityStrategy: s.scorer.Name(),
			RecommendedStart:   start,
			CommunityScore:     community,
		},
		DebugInfo: types.DebugInfo{
			FilesListed:        len(listing.Files),
			SkippedDirectories: skipped,
		},
	}

	facts := ai.RepoFacts{
		FullName:         info.FullName,
		Description:      info.Description,
		PrimaryLanguage:  primary,
		Languages:        percentages,
		FileCount:        len(listing.Files),
		SampleFiles:      result.TechAnalysis.SampleStructure,
		ComplexityScore:  complexity,
		ComplexityLevel:  level,
		RecommendedStart: start,
		ContributorCount: len(contributors),
		ActiveIssues:     len(issues),
		CommunityScore:   community,
	}
	s.addAIAnalysis(ctx, result, facts)

	return result, nil
}

// addAIAnalysis never fails the request: LLM errors degrade to a placeholder.
func (s *Service) addAIAnalysis(ctx context.Context, result *types.AnalysisResult, facts ai.RepoFacts) {
	if s.llm == nil {
		result.AIAnalysis = ai.Fallback(facts)
		return
	}

	result.DebugInfo.AIProvider = s.llm.Name()

	llmCtx, cancel := s.llmContext(ctx)
	defer cancel()

	analysis, err := ai.Analyze(llmCtx, s.llm, facts)
	if err != nil {
		slog.Warn("AI analysis failed", "repo", facts.FullName, "provider", s.llm.Name(), "error", err)
		result.AIAnalysis = ai.Placeholder(err)
		result.DebugInfo.AIError = err.Error()
		return
	}

	result.AIAnalysis = analysis
	result.HasAIAnalysis = true
}

// Chat forwards a conversation to the configured LLM and returns its reply.
func (s *Service) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	if s.llm == nil {
		return "", ErrMissingLLMKey
	}
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	llmCtx, cancel := s.llmContext(ctx)
	defer cancel()

	reply, err := s.llm.Chat(llmCtx, messages)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	return reply, nil
}

func (s *Service) llmContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.AI.Timeout > 0 {
		return context.WithTimeout(ctx, s.cfg.AI.Timeout)
	}
	return context.WithCancel(ctx)
}
