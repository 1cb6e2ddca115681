package report

import (
	"github.com/Sumatoshi-tech/trackfang/pkg/alg/stats"
	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/developers"
	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// topDeveloperCount caps the executive summary's ranked developer list.
const topDeveloperCount = 3

// BuilderInputs carries everything the builder assembles. All fields are
// upstream outputs; the builder adds no new computation beyond counting and
// ratio formatting.
type BuilderInputs struct {
	Period       records.Period
	Issues       []records.Issue
	PullRequests []records.PullRequest

	Pipelines   map[string]*correlation.Pipeline
	Correlation correlation.Result

	CycleTime metrics.CycleTimeStats
	Velocity  metrics.Velocity
	Quality   metrics.QualitySummary

	DeploymentFrequency float64

	Developers []developers.Stats

	Rules []Rule
}

// Build assembles the two output shapes from computed metrics.
func Build(in BuilderInputs) *Report {
	summary := buildSummary(in)
	summary.Strengths, summary.ImprovementAreas, summary.Recommendations = evaluateRules(in.Rules, summary)

	return &Report{
		Summary: *summary,
		Analytics: DetailedAnalytics{
			StageDistribution: stageDistribution(in.Pipelines),
			PhaseDurations:    phaseDurations(in.Pipelines),
			Developers:        in.Developers,
			Correlation:       in.Correlation,
			Collaboration:     collaboration(in.PullRequests, in.Developers),
		},
	}
}

func buildSummary(in BuilderInputs) *ExecutiveSummary {
	var (
		completed int
		points    float64
	)

	for _, issue := range in.Issues {
		if issue.Status == records.StatusDone {
			completed++
			points += issue.StoryPoints
		}
	}

	merged := 0

	for _, pr := range in.PullRequests {
		if pr.Merged() {
			merged++
		}
	}

	summary := &ExecutiveSummary{
		PeriodStart:             in.Period.Start,
		PeriodEnd:               in.Period.End,
		TotalIssues:             len(in.Issues),
		IssuesCompleted:         completed,
		StoryPointsDelivered:    points,
		PullRequestsMerged:      merged,
		CycleTime:               in.CycleTime,
		Velocity:                in.Velocity,
		Quality:                 in.Quality,
		DeploymentFrequency:     in.DeploymentFrequency,
		CorrelationPercentage:   in.Correlation.CorrelationPercentage,
		CorrelationInsufficient: in.Correlation.Insufficient,
		TopDevelopers:           topDevelopers(in.Developers),
	}

	if len(in.Issues) == 0 {
		summary.CompletionRateInsufficient = true
	} else {
		summary.CompletionRate = float64(completed) / float64(len(in.Issues))
	}

	return summary
}

func topDevelopers(ranked []developers.Stats) []TopDeveloper {
	count := min(len(ranked), topDeveloperCount)
	top := make([]TopDeveloper, 0, count)

	for _, dev := range ranked[:count] {
		top = append(top, TopDeveloper{
			Identity:     dev.Identity,
			QualityScore: dev.QualityScore,
			Deliveries:   dev.Deliveries,
		})
	}

	return top
}

func stageDistribution(pipelines map[string]*correlation.Pipeline) []StageCount {
	counts := make(map[correlation.Stage]int, len(correlation.Stages()))
	for _, pipeline := range pipelines {
		counts[pipeline.Stage]++
	}

	total := len(pipelines)
	distribution := make([]StageCount, 0, len(correlation.Stages()))

	for _, stage := range correlation.Stages() {
		bucket := StageCount{Stage: stage, Count: counts[stage]}
		if total > 0 {
			bucket.Percentage = float64(bucket.Count) / float64(total) * percentScale
		}

		distribution = append(distribution, bucket)
	}

	return distribution
}

func phaseDurations(pipelines map[string]*correlation.Pipeline) PhaseDurations {
	var planning, development, review []float64

	for _, pipeline := range pipelines {
		if pipeline.HasPlanning {
			planning = append(planning, pipeline.PlanningDays)
		}

		if pipeline.HasDevelopment {
			development = append(development, pipeline.DevelopmentDays)
		}

		if pipeline.HasReview {
			review = append(review, pipeline.ReviewDays)
		}
	}

	return PhaseDurations{
		PlanningMeanDays:    stats.Mean(planning),
		PlanningSamples:     len(planning),
		DevelopmentMeanDays: stats.Mean(development),
		DevelopmentSamples:  len(development),
		ReviewMeanDays:      stats.Mean(review),
		ReviewSamples:       len(review),
	}
}

func collaboration(pullRequests []records.PullRequest, devs []developers.Stats) Collaboration {
	reviewers := 0

	for _, dev := range devs {
		if dev.PullRequestsReviewed > 0 {
			reviewers++
		}
	}

	crossReviews := 0

	for _, pr := range pullRequests {
		for _, reviewer := range pr.Reviewers {
			if reviewer != pr.Author {
				crossReviews++
			}
		}
	}

	collab := Collaboration{CrossReviewCount: crossReviews}
	if len(devs) > 0 {
		collab.ReviewParticipationRatio = float64(reviewers) / float64(len(devs))
	}

	return collab
}
