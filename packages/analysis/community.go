package analysis

import (
	"math"

	"codesensei/types"
)

// CommunityScore rates engagement from 0 to 10: half a point per contributor
// and a tenth of a point per issue comment, each half capped at 5.
func CommunityScore(contributors []types.ContributorSummary, issues []types.IssueSummary) float64 {
	contributorScore := math.Min(5, float64(len(contributors))*0.5)
	issueScore := math.Min(5, float64(IssueEngagement(issues))*0.1)
	return round1(math.Min(maxScore, contributorScore+issueScore))
}

// IssueEngagement is the total comment count across issues.
func IssueEngagement(issues []types.IssueSummary) int {
	total := 0
	for _, issue := range issues {
		total += issue.Comments
	}
	return total
}
