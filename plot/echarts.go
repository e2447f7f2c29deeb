package plot

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes c as a standalone interactive page.
func RenderHTML(c *Chart, w io.Writer) error {
	if c.Empty() {
		return ErrEmptyChart
	}

	xAxis := opts.XAxis{Name: c.XAxis}
	if c.RotateLabels {
		xAxis.AxisLabel = &opts.AxisLabel{Rotate: 45, Interval: "0"}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: c.Title,
			Width:     "100%",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{Title: c.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(opts.YAxis{Name: c.YAxis}),
	)
	bar.SetXAxis(c.Categories)

	for j, s := range c.Series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		options := []charts.SeriesOpts{
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#" + c.seriesColor(j)}),
		}
		if c.Stacked() {
			options = append(options, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		bar.AddSeries(s.Name, data, options...)
	}
	return bar.Render(w)
}
