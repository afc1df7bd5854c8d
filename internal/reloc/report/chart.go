package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/relocperf/internal/reloc"
)

// RenderHTML writes an HTML chart report: a per-sequence accuracy overview
// bar chart, followed by a running-accuracy line chart for each evaluated
// sequence.
func RenderHTML(w io.Writer, tag string, names []string, results map[string]*reloc.SequenceResult, agg reloc.AggregateReport) error {
	page := components.NewPage()
	page.AddCharts(overviewChart(tag, names, results, agg))
	for _, name := range names {
		res, ok := results[name]
		if !ok || res.PoseCount == 0 {
			continue
		}
		page.AddCharts(traceChart(name, res))
	}
	return page.Render(w)
}

// overviewChart plots the three per-stage percentages for every evaluated
// sequence side by side.
func overviewChart(tag string, names []string, results map[string]*reloc.SequenceResult, agg reloc.AggregateReport) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Relocalization accuracy per sequence",
			Subtitle: fmt.Sprintf("tag=%s sequences=%d poses=%d weighted ICP=%.2f%%",
				tag, agg.SequenceCount, agg.PoseCount, agg.ICP.Weighted),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "% correct", Min: 0, Max: 100}),
	)

	var x []string
	var relocSeries, icpSeries, finalSeries []opts.BarData
	for _, name := range names {
		res, ok := results[name]
		if !ok || res.PoseCount == 0 {
			continue
		}
		x = append(x, name)
		relocSeries = append(relocSeries, opts.BarData{Value: percentage(res.ValidReloc, res.PoseCount)})
		icpSeries = append(icpSeries, opts.BarData{Value: percentage(res.ValidICP, res.PoseCount)})
		finalSeries = append(finalSeries, opts.BarData{Value: percentage(res.ValidFinal, res.PoseCount)})
	}

	bar.SetXAxis(x).
		AddSeries("Reloc", relocSeries).
		AddSeries("ICP", icpSeries).
		AddSeries("Final", finalSeries)
	return bar
}

// traceChart plots the cumulative reloc and ICP pass rates over a sequence.
// The frame-0 row is skipped: its rate is NaN/+Inf and has no chart
// representation.
func traceChart(name string, res *reloc.SequenceResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Running accuracy: " + name,
			Subtitle: fmt.Sprintf("%d poses", res.PoseCount),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "frame"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "cumulative pass rate", Min: 0, Max: 1}),
	)

	var x []string
	var relocSeries, icpSeries []opts.LineData
	for _, row := range reloc.BuildTrace(res) {
		if !row.RateDefined {
			continue
		}
		x = append(x, strconv.Itoa(row.Frame))
		relocSeries = append(relocSeries, opts.LineData{Value: row.RelocRate})
		icpSeries = append(icpSeries, opts.LineData{Value: row.ICPRate})
	}

	line.SetXAxis(x).
		AddSeries("Reloc", relocSeries).
		AddSeries("ICP", icpSeries)
	return line
}
