package render

import (
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

const markdownDateLayout = "January 2, 2006"

// Markdown writes the executive summary and detailed analytics as a
// Markdown document in the shape of the original executive dashboards.
func Markdown(rep *report.Report, writer io.Writer) error {
	summary := rep.Summary

	fmt.Fprintf(writer, "# Executive Delivery Report\n\n")
	fmt.Fprintf(writer, "**Period:** %s to %s\n\n",
		summary.PeriodStart.Format(markdownDateLayout), summary.PeriodEnd.Format(markdownDateLayout))

	writeMarkdownKPIs(writer, summary)
	writeMarkdownStages(writer, rep.Analytics.StageDistribution)
	writeMarkdownDevelopers(writer, rep)
	writeMarkdownInsights(writer, summary)

	return nil
}

func writeMarkdownKPIs(writer io.Writer, summary report.ExecutiveSummary) {
	fmt.Fprintf(writer, "## Key Metrics\n\n")

	row := func(label, value string) {
		fmt.Fprintf(writer, "- **%s:** %s\n", label, value)
	}

	row("Issues Completed", fmt.Sprintf("%d of %d", summary.IssuesCompleted, summary.TotalIssues))

	if summary.CompletionRateInsufficient {
		row("Completion Rate", insufficientData)
	} else {
		row("Completion Rate", percent(summary.CompletionRate))
	}

	row("Story Points Delivered", fmt.Sprintf("%.1f", summary.StoryPointsDelivered))
	row("Pull Requests Merged", fmt.Sprintf("%d", summary.PullRequestsMerged))

	if summary.CycleTime.Insufficient {
		row("Average Cycle Time", insufficientData)
	} else {
		row("Average Cycle Time", days(summary.CycleTime.MeanDays))
		row("Median Cycle Time", days(summary.CycleTime.MedianDays))
	}

	if summary.CorrelationInsufficient {
		row("Cross-Platform Correlation", insufficientData)
	} else {
		row("Cross-Platform Correlation", fmt.Sprintf("%.1f%%", summary.CorrelationPercentage))
	}

	if !summary.Quality.Insufficient {
		row("First-Time Quality", percent(summary.Quality.FirstTimeQuality))
		row("Defect Rate", percent(summary.Quality.DefectRate))
		row("Review Coverage", percent(summary.Quality.ReviewCoverage))
	}

	row("Deployment Frequency", fmt.Sprintf("%.2f PRs/day", summary.DeploymentFrequency))
	fmt.Fprintln(writer)
}

func writeMarkdownStages(writer io.Writer, distribution []report.StageCount) {
	if len(distribution) == 0 {
		return
	}

	fmt.Fprintf(writer, "## Pipeline Stages\n\n")
	fmt.Fprintf(writer, "| Stage | Issues | Share |\n|---|---|---|\n")

	for _, bucket := range distribution {
		fmt.Fprintf(writer, "| %s | %d | %.1f%% |\n", bucket.Stage, bucket.Count, bucket.Percentage)
	}

	fmt.Fprintln(writer)
}

func writeMarkdownDevelopers(writer io.Writer, rep *report.Report) {
	if len(rep.Summary.TopDevelopers) > 0 {
		fmt.Fprintf(writer, "## Top Performers\n\n")

		for rank, dev := range rep.Summary.TopDevelopers {
			fmt.Fprintf(writer, "%d. **%s**: quality %.2f, %d deliveries\n",
				rank+1, dev.Identity, dev.QualityScore, dev.Deliveries)
		}

		fmt.Fprintln(writer)
	}

	devs := rep.Analytics.Developers
	if len(devs) == 0 {
		return
	}

	fmt.Fprintf(writer, "## Developer Breakdown\n\n")
	fmt.Fprintf(writer, "| Developer | Quality | Deliveries | Commits | Lines +/- | PRs | Reviews |\n")
	fmt.Fprintf(writer, "|---|---|---|---|---|---|---|\n")

	for _, dev := range devs {
		fmt.Fprintf(writer, "| %s | %.2f | %d | %d | +%d/-%d | %d | %d |\n",
			dev.Identity, dev.QualityScore, dev.Deliveries, dev.Commits,
			dev.LinesAdded, dev.LinesRemoved, dev.PullRequestsCreated, dev.PullRequestsReviewed)
	}

	fmt.Fprintln(writer)
}

func writeMarkdownInsights(writer io.Writer, summary report.ExecutiveSummary) {
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}

		fmt.Fprintf(writer, "## %s\n\n", title)

		for _, line := range lines {
			fmt.Fprintf(writer, "- %s\n", line)
		}

		fmt.Fprintln(writer)
	}

	section("Strengths", summary.Strengths)
	section("Improvement Areas", summary.ImprovementAreas)
	section("Recommendations", summary.Recommendations)
}
