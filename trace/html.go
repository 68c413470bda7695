package trace

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sarchlab/mulsim/timing/core"
)

// WriteHTML renders the trace as a self-contained echarts page with one
// line per register and the observed product.
func WriteHTML(w io.Writer, title string, entries []core.TraceEntry) error {
	page := components.NewPage()
	page.AddCharts(registerChart(title, entries))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render trace chart: %w", err)
	}
	return nil
}

func registerChart(title string, entries []core.TraceEntry) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "pipeline registers per cycle",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "cycle"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "value"}),
	)

	cycles := make([]string, len(entries))
	for i, e := range entries {
		cycles[i] = strconv.FormatUint(e.Cycle, 10)
	}
	line.SetXAxis(cycles)

	for _, s := range Signals {
		if s.Name == "reset" {
			continue
		}
		line.AddSeries(s.Name, seriesData(entries, s.Value))
	}
	line.AddSeries("observed", seriesData(entries, func(e core.TraceEntry) uint64 {
		return uint64(e.Observed)
	}))

	return line
}

func seriesData(entries []core.TraceEntry, value func(core.TraceEntry) uint64) []opts.LineData {
	data := make([]opts.LineData, len(entries))
	for i, e := range entries {
		data[i] = opts.LineData{Value: value(e)}
	}
	return data
}
