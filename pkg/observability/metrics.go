package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRunsTotal       = "trackfang.runs.total"
	metricRunDuration     = "trackfang.run.duration.seconds"
	metricRecordsIngested = "trackfang.records.ingested.total"

	attrStatus = "status"
	attrKind   = "kind"

	// StatusOK and StatusError are the run status attribute values.
	StatusOK    = "ok"
	StatusError = "error"

	// Record kind attribute values.
	KindIssue       = "issue"
	KindCommit      = "commit"
	KindPullRequest = "pull_request"
)

// durationBucketBoundaries covers 1ms to 60s; report generation is usually
// sub-second but large bundles can take longer.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}

// EngineMetrics holds the OTel instruments for report generation runs.
type EngineMetrics struct {
	runsTotal       metric.Int64Counter
	runDuration     metric.Float64Histogram
	recordsIngested metric.Int64Counter
}

// NewEngineMetrics creates engine metric instruments from the given meter.
func NewEngineMetrics(mt metric.Meter) (*EngineMetrics, error) {
	runs, err := mt.Int64Counter(metricRunsTotal,
		metric.WithDescription("Total number of report generation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricRunDuration,
		metric.WithDescription("Report generation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRunDuration, err)
	}

	ingested, err := mt.Int64Counter(metricRecordsIngested,
		metric.WithDescription("Total number of records ingested"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRecordsIngested, err)
	}

	return &EngineMetrics{
		runsTotal:       runs,
		runDuration:     duration,
		recordsIngested: ingested,
	}, nil
}

// RecordRun records a completed report generation run.
func (em *EngineMetrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(attrStatus, status))

	em.runsTotal.Add(ctx, 1, attrs)
	em.runDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordIngested records the number of ingested records of the given kind.
func (em *EngineMetrics) RecordIngested(ctx context.Context, kind string, count int) {
	em.recordsIngested.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String(attrKind, kind),
	))
}
