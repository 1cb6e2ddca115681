package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

func TestComputeQualitySummary(t *testing.T) {
	t.Parallel()

	classifier := NewPatternClassifier(nil)
	weights := DefaultWeights()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mergedAt := base.AddDate(0, 0, 5)

	t.Run("clean_pipeline", func(t *testing.T) {
		t.Parallel()

		commits := []records.Commit{
			{SHA: "aaa", Author: "alice", Timestamp: base, Message: "OCM-1 implement login"},
		}
		prs := []records.PullRequest{
			{ID: 1, Author: "alice", Reviewers: []string{"bob"}, CreatedAt: base, MergedAt: &mergedAt},
		}
		pipelines := map[string]*correlation.Pipeline{
			"OCM-1": {IssueKey: "OCM-1", LinkedCommits: []string{"aaa"}, LinkedPRs: []int{1}},
		}

		got := ComputeQualitySummary(pipelines, commits, prs, classifier, weights)

		assert.False(t, got.Insufficient)
		assert.InDelta(t, 0.0, got.ReworkRate, 0.0001)
		assert.InDelta(t, 1.0, got.FirstTimeQuality, 0.0001)
		assert.InDelta(t, 0.0, got.DefectRate, 0.0001)
		assert.InDelta(t, 1.0, got.ReviewCoverage, 0.0001)
		assert.InDelta(t, 1.0, got.Score, 0.0001)
	})

	t.Run("rework_and_defect", func(t *testing.T) {
		t.Parallel()

		commits := []records.Commit{
			{SHA: "aaa", Author: "alice", Timestamp: base, Message: "OCM-1 implement login"},
			{SHA: "bbb", Author: "alice", Timestamp: mergedAt.Add(2 * time.Hour), Message: "OCM-1 fix regression"},
		}
		prs := []records.PullRequest{
			{ID: 1, Author: "alice", CreatedAt: base, MergedAt: &mergedAt},
		}
		pipelines := map[string]*correlation.Pipeline{
			"OCM-1": {IssueKey: "OCM-1", LinkedCommits: []string{"aaa", "bbb"}, LinkedPRs: []int{1}},
		}

		got := ComputeQualitySummary(pipelines, commits, prs, classifier, weights)

		assert.InDelta(t, 0.5, got.ReworkRate, 0.0001)
		assert.InDelta(t, 0.5, got.FirstTimeQuality, 0.0001)
		assert.InDelta(t, 1.0, got.DefectRate, 0.0001) // the post-merge fix marks the pipeline defective
		assert.InDelta(t, 0.0, got.ReviewCoverage, 0.0001)
	})

	t.Run("no_activity_is_insufficient", func(t *testing.T) {
		t.Parallel()

		pipelines := map[string]*correlation.Pipeline{
			"OCM-1": {IssueKey: "OCM-1"},
		}

		got := ComputeQualitySummary(pipelines, nil, nil, classifier, weights)
		assert.True(t, got.Insufficient)
	})

	t.Run("empty_everything_is_insufficient", func(t *testing.T) {
		t.Parallel()

		got := ComputeQualitySummary(nil, nil, nil, classifier, weights)
		assert.True(t, got.Insufficient)
	})
}
