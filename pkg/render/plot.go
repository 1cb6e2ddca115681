package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

const plotMaxDevs = 20

// HTML writes an interactive chart page: the pipeline stage distribution and
// the per-developer quality ranking.
func HTML(rep *report.Report, writer io.Writer) error {
	page := components.NewPage()
	page.SetPageTitle("Delivery Analytics")

	page.AddCharts(
		stageChart(rep.Analytics.StageDistribution),
		qualityChart(rep),
	)

	err := page.Render(writer)
	if err != nil {
		return fmt.Errorf("render charts: %w", err)
	}

	return nil
}

func stageChart(distribution []report.StageCount) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Pipeline Stage Distribution",
			Subtitle: "Issues by furthest delivery milestone reached",
			Left:     "2%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Stage"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Issues"}),
	)

	labels := make([]string, len(distribution))
	data := make([]opts.BarData, len(distribution))

	for i, bucket := range distribution {
		labels[i] = string(bucket.Stage)
		data[i] = opts.BarData{Value: bucket.Count}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("issues", data)

	return bar
}

func qualityChart(rep *report.Report) components.Charter {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Developer Quality Ranking",
			Subtitle: fmt.Sprintf("Quality score per developer (top %d)", plotMaxDevs),
			Left:     "2%",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Developer"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Quality"}),
	)

	devs := rep.Analytics.Developers
	shown := min(len(devs), plotMaxDevs)

	labels := make([]string, 0, shown)
	data := make([]opts.BarData, 0, shown)

	for _, dev := range devs[:shown] {
		labels = append(labels, dev.Identity)
		data = append(data, opts.BarData{Value: dev.QualityScore})
	}

	bar.SetXAxis(labels)
	bar.AddSeries("quality", data)

	return bar
}
