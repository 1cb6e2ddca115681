package render

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/trackfang/pkg/developers"
	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

const (
	textDateLayout  = "2006-01-02"
	textMaxDevRows  = 10
	textKPILabelPad = 24
)

// Text writes a terminal-oriented summary with KPI lines, a ranked developer
// table and the qualitative insight sections.
func Text(rep *report.Report, writer io.Writer) error {
	summary := rep.Summary

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(writer, "Delivery Report  %s .. %s\n\n",
		summary.PeriodStart.Format(textDateLayout), summary.PeriodEnd.Format(textDateLayout))

	writeKPIs(writer, summary)
	writeStageDistribution(writer, rep.Analytics.StageDistribution)
	writeDeveloperTable(writer, rep.Analytics.Developers)
	writeInsights(writer, summary)

	return nil
}

func writeKPIs(writer io.Writer, summary report.ExecutiveSummary) {
	kpi := func(label, value string) {
		fmt.Fprintf(writer, "  %-*s %s\n", textKPILabelPad, label, value)
	}

	kpi("Issues Completed", fmt.Sprintf("%s / %s",
		humanize.Comma(int64(summary.IssuesCompleted)), humanize.Comma(int64(summary.TotalIssues))))

	if summary.CompletionRateInsufficient {
		kpi("Completion Rate", insufficientData)
	} else {
		kpi("Completion Rate", percent(summary.CompletionRate))
	}

	kpi("Story Points Delivered", humanize.FtoaWithDigits(summary.StoryPointsDelivered, 1))
	kpi("PRs Merged", humanize.Comma(int64(summary.PullRequestsMerged)))

	if summary.CycleTime.Insufficient {
		kpi("Cycle Time", insufficientData)
	} else {
		kpi("Cycle Time (mean)", days(summary.CycleTime.MeanDays))
		kpi("Cycle Time (median)", days(summary.CycleTime.MedianDays))
		kpi("Cycle Time (stddev)", days(summary.CycleTime.StdDevDays))
	}

	if summary.CorrelationInsufficient {
		kpi("Correlation", insufficientData)
	} else {
		kpi("Correlation", fmt.Sprintf("%.1f%%", summary.CorrelationPercentage))
	}

	if summary.Quality.Insufficient {
		kpi("Quality", insufficientData)
	} else {
		kpi("First-Time Quality", percent(summary.Quality.FirstTimeQuality))
		kpi("Defect Rate", percent(summary.Quality.DefectRate))
		kpi("Review Coverage", percent(summary.Quality.ReviewCoverage))
	}

	kpi("Deployment Frequency", fmt.Sprintf("%.2f PRs/day", summary.DeploymentFrequency))

	if summary.Velocity.Insufficient {
		kpi("Velocity", insufficientData)
	} else {
		kpi("Velocity", fmt.Sprintf("%.1f pts/week, %.1f issues/week",
			summary.Velocity.StoryPointsPerWeek, summary.Velocity.IssuesPerWeek))
	}

	fmt.Fprintln(writer)
}

func writeStageDistribution(writer io.Writer, distribution []report.StageCount) {
	if len(distribution) == 0 {
		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Stage", "Issues", "Share"})

	for _, bucket := range distribution {
		tbl.AppendRow(table.Row{string(bucket.Stage), bucket.Count, fmt.Sprintf("%.1f%%", bucket.Percentage)})
	}

	tbl.Render()
	fmt.Fprintln(writer)
}

func writeDeveloperTable(writer io.Writer, devs []developers.Stats) {
	if len(devs) == 0 {
		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(writer)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Developer", "Quality", "Deliveries", "Commits", "+Lines", "-Lines", "PRs", "Reviews"})

	shown := min(len(devs), textMaxDevRows)

	for _, dev := range devs[:shown] {
		tbl.AppendRow(table.Row{
			dev.Identity,
			fmt.Sprintf("%.2f", dev.QualityScore),
			dev.Deliveries,
			humanize.Comma(int64(dev.Commits)),
			humanize.Comma(int64(dev.LinesAdded)),
			humanize.Comma(int64(dev.LinesRemoved)),
			dev.PullRequestsCreated,
			dev.PullRequestsReviewed,
		})
	}

	if len(devs) > textMaxDevRows {
		tbl.AppendFooter(table.Row{fmt.Sprintf("and %d more", len(devs)-textMaxDevRows)})
	}

	tbl.Render()
	fmt.Fprintln(writer)
}

func writeInsights(writer io.Writer, summary report.ExecutiveSummary) {
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}

		color.New(color.FgGreen).Fprintf(writer, "%s\n", title)

		for _, line := range lines {
			fmt.Fprintf(writer, "  - %s\n", line)
		}

		fmt.Fprintln(writer)
	}

	section("Strengths", summary.Strengths)
	section("Improvement Areas", summary.ImprovementAreas)
	section("Recommendations", summary.Recommendations)
}
