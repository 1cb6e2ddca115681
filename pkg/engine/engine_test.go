package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

var engineBase = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time {
	return &t
}

// scenarioInputs builds a 4-week sprint: three issues, two done, every issue
// referenced by at least one commit or pull request.
func scenarioInputs() Inputs {
	return Inputs{
		Period: records.Period{Start: engineBase, End: engineBase.AddDate(0, 0, 28)},
		Issues: []records.Issue{
			{
				Key: "OCM-1", Status: records.StatusDone, StoryPoints: 5, Assignee: "alice",
				CreatedAt: engineBase, ResolvedAt: timePtr(engineBase.AddDate(0, 0, 4)),
			},
			{
				Key: "OCM-2", Status: records.StatusDone, StoryPoints: 3, Assignee: "bob",
				CreatedAt: engineBase, ResolvedAt: timePtr(engineBase.AddDate(0, 0, 8)),
			},
			{
				Key: "OCM-3", Status: records.StatusInProgress, Assignee: "alice",
				CreatedAt: engineBase.AddDate(0, 0, 10),
			},
		},
		Commits: []records.Commit{
			{
				SHA: "aaa111", Author: "alice", Message: "OCM-1 implement parser",
				Timestamp: engineBase.AddDate(0, 0, 1), LinesAdded: 120, LinesRemoved: 10,
			},
			{
				SHA: "bbb222", Author: "bob", Message: "OCM-2 add cache layer",
				Timestamp: engineBase.AddDate(0, 0, 3), LinesAdded: 80, LinesRemoved: 5,
			},
			{
				SHA: "ccc333", Author: "alice", Message: "OCM-3 wip scaffolding",
				Timestamp: engineBase.AddDate(0, 0, 11), LinesAdded: 40, LinesRemoved: 0,
			},
		},
		PullRequests: []records.PullRequest{
			{
				ID: 1, Author: "alice", Title: "OCM-1 parser", SourceBranch: "feature/OCM-1-parser",
				Reviewers: []string{"bob"}, CreatedAt: engineBase.AddDate(0, 0, 2),
				MergedAt: timePtr(engineBase.AddDate(0, 0, 4)), Commits: []string{"aaa111"},
			},
			{
				ID: 2, Author: "bob", Title: "OCM-2 cache", SourceBranch: "feature/OCM-2-cache",
				Reviewers: []string{"alice"}, CreatedAt: engineBase.AddDate(0, 0, 5),
				MergedAt: timePtr(engineBase.AddDate(0, 0, 8)), Commits: []string{"bbb222"},
			},
		},
	}
}

func TestRunScenario(t *testing.T) {
	t.Parallel()

	eng, err := New()
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), scenarioInputs())
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Summary.TotalIssues)
	assert.Equal(t, 2, rep.Summary.IssuesCompleted)
	assert.InDelta(t, 2.0/3.0, rep.Summary.CompletionRate, 0.0001)
	assert.InDelta(t, 8.0, rep.Summary.StoryPointsDelivered, 0.0001)
	assert.Equal(t, 2, rep.Summary.PullRequestsMerged)

	// Every issue has linked activity.
	assert.InDelta(t, 100.0, rep.Summary.CorrelationPercentage, 0.0001)
	assert.False(t, rep.Summary.CorrelationInsufficient)
	assert.Equal(t, 3, rep.Analytics.Correlation.IssuesWithCommits)
	assert.Equal(t, 2, rep.Analytics.Correlation.IssuesWithPRs)
	assert.Equal(t, 0, rep.Analytics.Correlation.UnlinkedCommits)

	// Cycle time over the two resolved issues: 4 and 8 days.
	assert.Equal(t, 2, rep.Summary.CycleTime.SampleCount)
	assert.InDelta(t, 6.0, rep.Summary.CycleTime.MeanDays, 0.0001)
	assert.InDelta(t, 6.0, rep.Summary.CycleTime.MedianDays, 0.0001)
	assert.InDelta(t, 4.0, rep.Summary.CycleTime.MinDays, 0.0001)
	assert.InDelta(t, 8.0, rep.Summary.CycleTime.MaxDays, 0.0001)

	// 4-week period: 8 points, 2 issues, 2 merged PRs.
	assert.InDelta(t, 2.0, rep.Summary.Velocity.StoryPointsPerWeek, 0.0001)
	assert.InDelta(t, 0.5, rep.Summary.Velocity.IssuesPerWeek, 0.0001)
	assert.InDelta(t, 0.5, rep.Summary.Velocity.PullRequestsPerWeek, 0.0001)
	assert.InDelta(t, 2.0/28.0, rep.Summary.DeploymentFrequency, 0.0001)

	require.Len(t, rep.Analytics.Developers, 2)
}

func TestRunEmptyInputs(t *testing.T) {
	t.Parallel()

	eng, err := New()
	require.NoError(t, err)

	rep, err := eng.Run(context.Background(), Inputs{
		Period: records.Period{Start: engineBase, End: engineBase.AddDate(0, 0, 7)},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, rep.Summary.TotalIssues)
	assert.True(t, rep.Summary.CompletionRateInsufficient)
	assert.True(t, rep.Summary.CorrelationInsufficient)
	assert.True(t, rep.Summary.CycleTime.Insufficient)
	assert.True(t, rep.Summary.Velocity.Insufficient)
	assert.True(t, rep.Summary.Quality.Insufficient)
	assert.Empty(t, rep.Analytics.Developers)
	assert.Len(t, rep.Analytics.StageDistribution, 5)
}

func TestRunDeterministic(t *testing.T) {
	t.Parallel()

	eng, err := New()
	require.NoError(t, err)

	first, err := eng.Run(context.Background(), scenarioInputs())
	require.NoError(t, err)

	// Reversed input ordering must not change the report.
	shuffled := scenarioInputs()
	for i, j := 0, len(shuffled.Commits)-1; i < j; i, j = i+1, j-1 {
		shuffled.Commits[i], shuffled.Commits[j] = shuffled.Commits[j], shuffled.Commits[i]
	}

	second, err := eng.Run(context.Background(), shuffled)
	require.NoError(t, err)

	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Analytics.StageDistribution, second.Analytics.StageDistribution)
	assert.Equal(t, first.Analytics.Developers, second.Analytics.Developers)
	assert.Equal(t, first.Analytics.Correlation, second.Analytics.Correlation)
}

func TestRunCancelledContext(t *testing.T) {
	t.Parallel()

	eng, err := New()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.Run(ctx, scenarioInputs())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	t.Parallel()

	_, err := New(WithWeights(metrics.Weights{Rework: 0.5, Review: 0.5, Defect: 0.5}))
	require.Error(t, err)
}

func TestRunParallelExtraction(t *testing.T) {
	t.Parallel()

	in := scenarioInputs()

	// Enough commits to cross the worker-pool threshold; half reference the
	// in-progress issue, half are unlinked noise.
	for i := 0; i < 600; i++ {
		message := fmt.Sprintf("chore: tidy module %d", i)
		if i%2 == 0 {
			message = fmt.Sprintf("OCM-3 incremental step %d", i)
		}

		in.Commits = append(in.Commits, records.Commit{
			SHA:       fmt.Sprintf("pad%06d", i),
			Author:    "alice",
			Message:   message,
			Timestamp: engineBase.AddDate(0, 0, 12),
		})
	}

	sequential, err := New(WithMaxParallelism(1))
	require.NoError(t, err)

	parallel, err := New(WithMaxParallelism(8))
	require.NoError(t, err)

	seqRep, err := sequential.Run(context.Background(), in)
	require.NoError(t, err)

	parRep, err := parallel.Run(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, seqRep.Summary, parRep.Summary)
	assert.Equal(t, seqRep.Analytics.Correlation, parRep.Analytics.Correlation)
	assert.Equal(t, 300, parRep.Analytics.Correlation.UnlinkedCommits)
}
