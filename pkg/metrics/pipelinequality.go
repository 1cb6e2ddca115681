package metrics

import (
	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// QualitySummary is the aggregate quality picture over all pipelines.
type QualitySummary struct {
	// ReworkRate is the share of linked commits classified as rework.
	ReworkRate float64 `json:"rework_rate"`

	// FirstTimeQuality is 1 − ReworkRate.
	FirstTimeQuality float64 `json:"first_time_quality"`

	// DefectRate is the share of pipelines with a defective pull request.
	DefectRate float64 `json:"defect_rate"`

	// ReviewCoverage is the share of all pull requests with ≥1 reviewer.
	ReviewCoverage float64 `json:"review_coverage"`

	// Score is the aggregate quality score in [0, 1].
	Score float64 `json:"score"`

	// Insufficient is set when there was no activity to judge.
	Insufficient bool `json:"insufficient"`
}

// ComputeQualitySummary classifies every pipeline's linked activity and
// folds the outcomes into the aggregate quality summary.
func ComputeQualitySummary(
	pipelines map[string]*correlation.Pipeline,
	commits []records.Commit,
	pullRequests []records.PullRequest,
	classifier Classifier,
	weights Weights,
) QualitySummary {
	commitsBySHA := make(map[string]records.Commit, len(commits))
	for _, commit := range commits {
		commitsBySHA[commit.SHA] = commit
	}

	prsByID := make(map[int]records.PullRequest, len(pullRequests))
	for _, pr := range pullRequests {
		prsByID[pr.ID] = pr
	}

	var (
		linkedCommits, reworkCommits int
		defectivePipelines           int
	)

	for _, pipeline := range pipelines {
		outcome := classifyPipeline(pipeline, commitsBySHA, prsByID, classifier)
		linkedCommits += outcome.commits
		reworkCommits += outcome.rework

		if outcome.defective {
			defectivePipelines++
		}
	}

	var reviewedPRs int

	for _, pr := range pullRequests {
		if pr.Reviewed() {
			reviewedPRs++
		}
	}

	summary := QualitySummary{
		ReworkRate:     Rate(reworkCommits, linkedCommits),
		DefectRate:     Rate(defectivePipelines, len(pipelines)),
		ReviewCoverage: Rate(reviewedPRs, len(pullRequests)),
		Insufficient:   linkedCommits == 0 && len(pullRequests) == 0,
	}
	summary.FirstTimeQuality = 1 - summary.ReworkRate
	summary.Score = QualityScore(QualityInputs{
		ReworkRate:     summary.ReworkRate,
		ReviewCoverage: summary.ReviewCoverage,
		DefectRate:     summary.DefectRate,
	}, weights)

	return summary
}

// pipelineOutcome is the classification tally for one pipeline.
type pipelineOutcome struct {
	commits   int
	rework    int
	defective bool
}

func classifyPipeline(
	pipeline *correlation.Pipeline,
	commitsBySHA map[string]records.Commit,
	prsByID map[int]records.PullRequest,
	classifier Classifier,
) pipelineOutcome {
	outcome := pipelineOutcome{}

	linkedCommits := make([]records.Commit, 0, len(pipeline.LinkedCommits))

	for _, sha := range pipeline.LinkedCommits {
		commit, ok := commitsBySHA[sha]
		if !ok {
			continue
		}

		linkedCommits = append(linkedCommits, commit)
		outcome.commits++

		ctx := CommitContext{LinkedPR: containingPR(sha, pipeline.LinkedPRs, prsByID)}
		if classifier.ClassifyCommit(commit, ctx).Rework {
			outcome.rework++
		}
	}

	for _, id := range pipeline.LinkedPRs {
		pr, ok := prsByID[id]
		if !ok {
			continue
		}

		if classifier.Defective(pr, PRContext{FollowUpCommits: linkedCommits}) {
			outcome.defective = true

			break
		}
	}

	return outcome
}

// containingPR finds the linked pull request whose commit list contains the
// given SHA, nil when no linked PR contains it.
func containingPR(sha string, linkedPRs []int, prsByID map[int]records.PullRequest) *records.PullRequest {
	for _, id := range linkedPRs {
		pr, ok := prsByID[id]
		if !ok {
			continue
		}

		for _, prSHA := range pr.Commits {
			if prSHA == sha {
				return &pr
			}
		}
	}

	return nil
}
