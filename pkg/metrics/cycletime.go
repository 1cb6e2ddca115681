package metrics

import (
	"github.com/Sumatoshi-tech/trackfang/pkg/alg/stats"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// CycleTimeStats describes the distribution of creation-to-resolution times
// over the issues that have both timestamps. Issues missing either timestamp
// are excluded from the sample and do not shift the statistics.
type CycleTimeStats struct {
	MeanDays   float64 `json:"mean_days"`
	MedianDays float64 `json:"median_days"`
	MinDays    float64 `json:"min_days"`
	MaxDays    float64 `json:"max_days"`
	StdDevDays float64 `json:"stddev_days"`

	// SampleCount is the number of issues contributing to the distribution.
	SampleCount int `json:"sample_count"`

	// Insufficient is set when no issue had both timestamps; the numeric
	// fields are zero and should be rendered as "insufficient data".
	Insufficient bool `json:"insufficient"`
}

// ComputeCycleTime builds the cycle time distribution over resolved issues.
func ComputeCycleTime(issues []records.Issue) CycleTimeStats {
	samples := make([]float64, 0, len(issues))

	for _, issue := range issues {
		if days, ok := issue.CycleTimeDays(); ok {
			samples = append(samples, days)
		}
	}

	if len(samples) == 0 {
		return CycleTimeStats{Insufficient: true}
	}

	summary := stats.Summarize(samples)

	return CycleTimeStats{
		MeanDays:    summary.Mean,
		MedianDays:  summary.Median,
		MinDays:     summary.Min,
		MaxDays:     summary.Max,
		StdDevDays:  summary.StdDev,
		SampleCount: summary.Count,
	}
}
