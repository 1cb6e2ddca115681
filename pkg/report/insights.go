package report

import "fmt"

// RuleKind classifies threshold rules by the report section they feed.
type RuleKind string

// Rule kinds.
const (
	KindStrength       RuleKind = "strength"
	KindImprovement    RuleKind = "improvement"
	KindRecommendation RuleKind = "recommendation"
)

// Metric names a summary value a rule can test.
type Metric string

// Metrics addressable by threshold rules.
const (
	MetricCorrelation         Metric = "correlation_percentage"
	MetricReviewCoverage      Metric = "review_coverage"
	MetricFirstTimeQuality    Metric = "first_time_quality"
	MetricDefectRate          Metric = "defect_rate"
	MetricCycleTimeMean       Metric = "cycle_time_mean_days"
	MetricDeploymentFrequency Metric = "deployment_frequency"
)

// Rule is one threshold-driven qualitative statement. Rules are data, not
// code: thresholds and wording are adjustable without touching the engine.
type Rule struct {
	Metric Metric
	Kind   RuleKind

	// Above fires the rule when the metric exceeds Threshold; otherwise the
	// rule fires when the metric falls below it.
	Above     bool
	Threshold float64

	Message string
}

// Thresholds parametrize the default rule table.
type Thresholds struct {
	CorrelationExcellent float64 `mapstructure:"correlation_excellent"`
	CorrelationLow       float64 `mapstructure:"correlation_low"`
	ReviewCoverageHigh   float64 `mapstructure:"review_coverage_high"`
	ReviewCoverageLow    float64 `mapstructure:"review_coverage_low"`
	FirstTimeQualityHigh float64 `mapstructure:"first_time_quality_high"`
	DefectRateHigh       float64 `mapstructure:"defect_rate_high"`
	CycleTimeLongDays    float64 `mapstructure:"cycle_time_long_days"`
	CycleTimeSplitDays   float64 `mapstructure:"cycle_time_split_days"`
	DeploymentFreqLow    float64 `mapstructure:"deployment_frequency_low"`
}

// DefaultThresholds mirror the insight levels of the original dashboards.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CorrelationExcellent: 80,
		CorrelationLow:       60,
		ReviewCoverageHigh:   0.9,
		ReviewCoverageLow:    0.8,
		FirstTimeQualityHigh: 0.8,
		DefectRateHigh:       0.2,
		CycleTimeLongDays:    14,
		CycleTimeSplitDays:   10,
		DeploymentFreqLow:    0.5,
	}
}

// Rules expands the thresholds into the default rule table.
func (t Thresholds) Rules() []Rule {
	return []Rule{
		{
			Metric: MetricCorrelation, Kind: KindStrength, Above: true, Threshold: t.CorrelationExcellent,
			Message: "Excellent cross-platform tracking and correlation",
		},
		{
			Metric: MetricReviewCoverage, Kind: KindStrength, Above: true, Threshold: t.ReviewCoverageHigh,
			Message: "High code review coverage indicates good collaboration",
		},
		{
			Metric: MetricFirstTimeQuality, Kind: KindStrength, Above: true, Threshold: t.FirstTimeQualityHigh,
			Message: "Low rework rate shows good initial quality",
		},
		{
			Metric: MetricCycleTimeMean, Kind: KindImprovement, Above: true, Threshold: t.CycleTimeLongDays,
			Message: fmt.Sprintf("Cycle time is longer than recommended (>%.0f days)", t.CycleTimeLongDays),
		},
		{
			Metric: MetricDefectRate, Kind: KindImprovement, Above: true, Threshold: t.DefectRateHigh,
			Message: fmt.Sprintf("Defect rate is higher than target (<%.0f%%)", t.DefectRateHigh*percentScale),
		},
		{
			Metric: MetricCorrelation, Kind: KindImprovement, Above: false, Threshold: t.CorrelationLow,
			Message: "Low correlation between tracker and source control - improve process tracking",
		},
		{
			Metric: MetricCycleTimeMean, Kind: KindRecommendation, Above: true, Threshold: t.CycleTimeSplitDays,
			Message: "Consider breaking down large issues into smaller, deliverable chunks",
		},
		{
			Metric: MetricReviewCoverage, Kind: KindRecommendation, Above: false, Threshold: t.ReviewCoverageLow,
			Message: "Increase code review participation to improve quality",
		},
		{
			Metric: MetricDeploymentFrequency, Kind: KindRecommendation, Above: false, Threshold: t.DeploymentFreqLow,
			Message: "Increase deployment frequency for faster feedback loops",
		},
	}
}

// evaluateRules partitions the fired rule messages by kind. Metrics flagged
// insufficient never fire rules.
func evaluateRules(rules []Rule, summary *ExecutiveSummary) (strengths, improvements, recommendations []string) {
	for _, rule := range rules {
		value, ok := metricValue(rule.Metric, summary)
		if !ok {
			continue
		}

		fired := value > rule.Threshold
		if !rule.Above {
			fired = value < rule.Threshold
		}

		if !fired {
			continue
		}

		switch rule.Kind {
		case KindStrength:
			strengths = append(strengths, rule.Message)
		case KindImprovement:
			improvements = append(improvements, rule.Message)
		case KindRecommendation:
			recommendations = append(recommendations, rule.Message)
		}
	}

	return strengths, improvements, recommendations
}

// metricValue resolves a rule metric against the summary. The second return
// value is false when the metric has insufficient data.
func metricValue(metric Metric, summary *ExecutiveSummary) (float64, bool) {
	switch metric {
	case MetricCorrelation:
		return summary.CorrelationPercentage, !summary.CorrelationInsufficient
	case MetricReviewCoverage:
		return summary.Quality.ReviewCoverage, !summary.Quality.Insufficient
	case MetricFirstTimeQuality:
		return summary.Quality.FirstTimeQuality, !summary.Quality.Insufficient
	case MetricDefectRate:
		return summary.Quality.DefectRate, !summary.Quality.Insufficient
	case MetricCycleTimeMean:
		return summary.CycleTime.MeanDays, !summary.CycleTime.Insufficient
	case MetricDeploymentFrequency:
		return summary.DeploymentFrequency, summary.TotalIssues > 0 || summary.PullRequestsMerged > 0
	default:
		return 0, false
	}
}

const percentScale = 100
