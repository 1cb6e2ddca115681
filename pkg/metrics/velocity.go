package metrics

import (
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// Velocity holds per-week delivery rates over the reporting period.
type Velocity struct {
	StoryPointsPerWeek  float64 `json:"story_points_per_week"`
	IssuesPerWeek       float64 `json:"issues_per_week"`
	PullRequestsPerWeek float64 `json:"pull_requests_per_week"`

	// Insufficient is set when there were no completed issues and no merged
	// pull requests to measure.
	Insufficient bool `json:"insufficient"`
}

// ComputeVelocity derives per-week rates from completed issues and merged
// pull requests. The period length is clamped to at least one week so a
// sub-week window cannot blow the rates up.
func ComputeVelocity(issues []records.Issue, pullRequests []records.PullRequest, period records.Period) Velocity {
	weeks := period.Weeks()

	var (
		doneIssues int
		points     float64
		mergedPRs  int
	)

	for _, issue := range issues {
		if issue.Status == records.StatusDone {
			doneIssues++
			points += issue.StoryPoints
		}
	}

	for _, pr := range pullRequests {
		if pr.Merged() {
			mergedPRs++
		}
	}

	return Velocity{
		StoryPointsPerWeek:  points / weeks,
		IssuesPerWeek:       float64(doneIssues) / weeks,
		PullRequestsPerWeek: float64(mergedPRs) / weeks,
		Insufficient:        doneIssues == 0 && mergedPRs == 0,
	}
}

// DeploymentFrequency returns merged pull requests per day over the period.
func DeploymentFrequency(pullRequests []records.PullRequest, period records.Period) float64 {
	merged := 0

	for _, pr := range pullRequests {
		if pr.Merged() {
			merged++
		}
	}

	return float64(merged) / period.Days()
}
