package repository

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"codesensei/packages/config"
	"codesensei/types"

	"github.com/google/go-github/github"
	"golang.org/x/oauth2"
)

// maxIssueTitle is the number of characters kept from an issue title.
const maxIssueTitle = 100

// Source is the subset of the source-control API used by the analyzer.
type Source interface {
	Repository(ctx context.Context, ref types.RepositoryRef) (*types.RepoInfo, error)
	Languages(ctx context.Context, ref types.RepositoryRef) (types.LanguageStats, error)
	Contents(ctx context.Context, ref types.RepositoryRef, path string) ([]Entry, error)
	Contributors(ctx context.Context, ref types.RepositoryRef, limit int) ([]types.ContributorSummary, error)
	ActiveIssues(ctx context.Context, ref types.RepositoryRef, limit int) ([]types.IssueSummary, error)
}

// NewGitHubClient builds a go-github client that authenticates every request
// with the configured token.
func NewGitHubClient(cfg config.GitHubConfig) (*github.Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = cfg.Timeout

	client := github.NewClient(httpClient)
	if cfg.BaseURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid github.base_url: %w", err)
		}
		client.BaseURL = base
	}
	return client, nil
}

// GitHubSource implements Source on top of the GitHub REST API.
type GitHubSource struct {
	client *github.Client
}

func NewGitHubSource(client *github.Client) *GitHubSource {
	return &GitHubSource{client: client}
}

func (s *GitHubSource) Repository(ctx context.Context, ref types.RepositoryRef) (*types.RepoInfo, error) {
	repo, _, err := s.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	slog.Debug("Fetched repository", "repo", repo.GetFullName(), "defaultBranch", repo.GetDefaultBranch())

	return &types.RepoInfo{
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Stars:         repo.GetStargazersCount(),
		Forks:         repo.GetForksCount(),
		URL:           repo.GetHTMLURL(),
		OpenIssues:    repo.GetOpenIssuesCount(),
		Watchers:      repo.GetSubscribersCount(),
		DefaultBranch: repo.GetDefaultBranch(),
		Topics:        repo.Topics,
	}, nil
}

func (s *GitHubSource) Languages(ctx context.Context, ref types.RepositoryRef) (types.LanguageStats, error) {
	langs, _, err := s.client.Repositories.ListLanguages(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	return types.LanguageStats(langs), nil
}

func (s *GitHubSource) Contents(ctx context.Context, ref types.RepositoryRef, path string) ([]Entry, error) {
	file, dir, _, err := s.client.Repositories.GetContents(ctx, ref.Owner, ref.Name, path, nil)
	if err != nil {
		return nil, wrapAPIError(err)
	}
	if file != nil {
		return nil, fmt.Errorf("%s is a file, not a directory", path)
	}

	entries := make([]Entry, 0, len(dir))
	for _, c := range dir {
		entries = append(entries, Entry{
			Name: c.GetName(),
			Path: c.GetPath(),
			Type: c.GetType(),
		})
	}
	return entries, nil
}

// Lister binds Contents to one repository for use with WalkTree.
func Lister(src Source, ref types.RepositoryRef) ListFunc {
	return func(ctx context.Context, path string) ([]Entry, error) {
		return src.Contents(ctx, ref, path)
	}
}

func (s *GitHubSource) Contributors(ctx context.Context, ref types.RepositoryRef, limit int) ([]types.ContributorSummary, error) {
	if limit <= 0 {
		return []types.ContributorSummary{}, nil
	}
	opts := &github.ListContributorsOptions{
		ListOptions: github.ListOptions{PerPage: perPage(limit)},
	}
	contributors, _, err := s.client.Repositories.ListContributors(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	out := make([]types.ContributorSummary, 0, limit)
	for _, c := range contributors {
		if len(out) >= limit {
			break
		}
		out = append(out, types.ContributorSummary{
			Username:      c.GetLogin(),
			AvatarURL:     c.GetAvatarURL(),
			Contributions: c.GetContributions(),
			ProfileURL:    c.GetHTMLURL(),
		})
	}
	return out, nil
}

// ActiveIssues returns open issues, most commented first. Pull requests,
// which the issues endpoint also returns, are filtered out.
func (s *GitHubSource) ActiveIssues(ctx context.Context, ref types.RepositoryRef, limit int) ([]types.IssueSummary, error) {
	if limit <= 0 {
		return []types.IssueSummary{}, nil
	}
	opts := &github.IssueListByRepoOptions{
		State:     "open",
		Sort:      "comments",
		Direction: "desc",
		// Over-fetch to leave room for the pull requests that get dropped.
		ListOptions: github.ListOptions{PerPage: perPage(limit * 3)},
	}
	issues, _, err := s.client.Issues.ListByRepo(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, wrapAPIError(err)
	}

	out := make([]types.IssueSummary, 0, limit)
	for _, issue := range issues {
		if len(out) >= limit {
			break
		}
		if issue.PullRequestLinks != nil {
			continue
		}
		out = append(out, summarizeIssue(issue))
	}
	SortIssuesByComments(out)
	return out, nil
}

func summarizeIssue(issue *github.Issue) types.IssueSummary {
	var createdAt *string
	if issue.CreatedAt != nil {
		s := issue.CreatedAt.UTC().Format(time.RFC3339)
		createdAt = &s
	}
	return types.IssueSummary{
		Number:    issue.GetNumber(),
		Title:     TruncateTitle(issue.GetTitle(), maxIssueTitle),
		URL:       issue.GetHTMLURL(),
		Comments:  issue.GetComments(),
		CreatedAt: createdAt,
		State:     issue.GetState(),
	}
}

// TruncateTitle cuts title to max characters and marks the cut with "...".
func TruncateTitle(title string, max int) string {
	if utf8.RuneCountInString(title) <= max {
		return title
	}
	return string([]rune(title)[:max]) + "..."
}

// SortIssuesByComments orders issues by descending comment count, keeping
// the upstream order for equal counts.
func SortIssuesByComments(issues []types.IssueSummary) {
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Comments > issues[j].Comments
	})
}

func perPage(n int) int {
	if n > 100 {
		return 100
	}
	return n
}
