// Package report assembles the metrics model into the two output shapes
// consumed by renderers: the executive summary and the detailed analytics.
// Assembly is pure: no metric is computed here that was not computed
// upstream, and the models carry only primitive and aggregate values so
// renderers can serialize them directly.
package report

import (
	"time"

	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/developers"
	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
)

// Report bundles both output shapes of one engine invocation.
type Report struct {
	Summary   ExecutiveSummary  `json:"summary"`
	Analytics DetailedAnalytics `json:"analytics"`
}

// ExecutiveSummary is the KPI-level view of the reporting period.
type ExecutiveSummary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	TotalIssues     int `json:"total_issues"`
	IssuesCompleted int `json:"issues_completed"`

	// CompletionRate is done issues over total issues, in [0, 1]. Zero with
	// the insufficiency flag when there are no issues.
	CompletionRate             float64 `json:"completion_rate"`
	CompletionRateInsufficient bool    `json:"completion_rate_insufficient"`

	StoryPointsDelivered float64 `json:"story_points_delivered"`
	PullRequestsMerged   int     `json:"pull_requests_merged"`

	CycleTime metrics.CycleTimeStats `json:"cycle_time"`
	Velocity  metrics.Velocity       `json:"velocity"`
	Quality   metrics.QualitySummary `json:"quality"`

	// DeploymentFrequency is merged pull requests per day.
	DeploymentFrequency float64 `json:"deployment_frequency"`

	// CorrelationPercentage mirrors the correlation result, in [0, 100].
	CorrelationPercentage   float64 `json:"correlation_percentage"`
	CorrelationInsufficient bool    `json:"correlation_insufficient"`

	TopDevelopers []TopDeveloper `json:"top_developers"`

	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	Recommendations  []string `json:"recommendations"`
}

// TopDeveloper is one entry of the ranked developer list.
type TopDeveloper struct {
	Identity     string  `json:"identity"`
	QualityScore float64 `json:"quality_score"`
	Deliveries   int     `json:"deliveries"`
}

// DetailedAnalytics is the drill-down view backing detailed dashboards.
type DetailedAnalytics struct {
	StageDistribution []StageCount       `json:"stage_distribution"`
	PhaseDurations    PhaseDurations     `json:"phase_durations"`
	Developers        []developers.Stats `json:"developers"`
	Correlation       correlation.Result `json:"correlation"`
	Collaboration     Collaboration      `json:"collaboration"`
}

// PhaseDurations average the per-pipeline phase lengths: issue creation to
// first commit (planning), first commit to first pull request (development),
// first pull request to first merge (review). Sample counts say how many
// pipelines reached both bounding milestones of each phase.
type PhaseDurations struct {
	PlanningMeanDays    float64 `json:"planning_mean_days"`
	PlanningSamples     int     `json:"planning_samples"`
	DevelopmentMeanDays float64 `json:"development_mean_days"`
	DevelopmentSamples  int     `json:"development_samples"`
	ReviewMeanDays      float64 `json:"review_mean_days"`
	ReviewSamples       int     `json:"review_samples"`
}

// StageCount is one bucket of the pipeline stage distribution.
type StageCount struct {
	Stage      correlation.Stage `json:"stage"`
	Count      int               `json:"count"`
	Percentage float64           `json:"percentage"`
}

// Collaboration captures team-level review dynamics.
type Collaboration struct {
	// ReviewParticipationRatio is the share of developers who reviewed at
	// least one pull request.
	ReviewParticipationRatio float64 `json:"review_participation_ratio"`

	// CrossReviewCount counts (pull request, reviewer) pairs where the
	// reviewer is not the author.
	CrossReviewCount int `json:"cross_review_count"`
}
