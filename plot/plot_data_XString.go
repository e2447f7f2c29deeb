package plot

import (
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

type dataXStringsForGraph struct {
	xValues   []string
	yValues   []float64
	colors    []drawing.Color
	nameYAxis string
	nameGraph string
	rotate    bool
}

// newDataXStringsForGraph flattens a chart into one bar per value. Charts with
// several series get their bars interleaved per category, colored by series.
func newDataXStringsForGraph(c *Chart) dataXStringsForGraph {
	d := dataXStringsForGraph{
		nameYAxis: c.YAxis,
		nameGraph: c.Title,
		rotate:    c.RotateLabels,
	}
	single := len(c.Series) == 1
	for i, category := range c.Categories {
		for j, s := range c.Series {
			label := category
			if !single {
				label = fmt.Sprintf("%s %s", category, s.Name)
			}
			d.xValues = append(d.xValues, label)
			d.yValues = append(d.yValues, s.Values[i])
			d.colors = append(d.colors, drawing.ColorFromHex(c.seriesColor(j)))
		}
	}
	return d
}

func (d dataXStringsForGraph) GetNameGraph() string {
	return d.nameGraph
}
func (d dataXStringsForGraph) getNameYAxis() string {
	return d.nameYAxis
}
func (d dataXStringsForGraph) getYValues() []float64 {
	return d.yValues
}
func (d dataXStringsForGraph) getXValues() []string {
	return d.xValues
}

func (d dataXStringsForGraph) lenXValues() int {
	return len(d.xValues)
}

func (d dataXStringsForGraph) labelRotation() float64 {
	if d.rotate {
		return 45
	}
	return 88
}

func (d dataXStringsForGraph) calculateChartDimensions(minBarWidth float64) (width, height int) {
	if len(d.yValues) == 0 || d.lenXValues() <= 0 || minBarWidth <= 0 {
		return 0, 0
	}
	x := 1.1
	if d.lenXValues() < 2 {
		x = 10.0
	} else if d.lenXValues() < 10 {
		x = 3.0
	}

	const (
		paddingY     = 100 // room for the Y axis and its labels
		spacingRatio = 0.2 // gap between bars relative to the bar width
		aspectRatio  = 9.0 / 16.0
	)

	barSpacing := minBarWidth * spacingRatio
	totalWidth := (minBarWidth+barSpacing)*float64(d.lenXValues()) + paddingY
	width = int(totalWidth*x) + paddingY
	height = int(float64(width) * aspectRatio)
	return width, height
}

func (d dataXStringsForGraph) generateBarValues() []chart.Value {
	var bars []chart.Value
	for i, label := range d.xValues {
		bars = append(bars, chart.Value{
			Value: d.yValues[i],
			Label: label,
			Style: chart.Style{
				FillColor:   d.colors[i],
				StrokeColor: d.colors[i],
			},
		})
	}
	return bars
}

// generateGrid returns the Y ticks from zero up to the first grid line at or
// above the largest value.
func (d dataXStringsForGraph) generateGrid() []chart.Tick {
	var ticks []chart.Tick
	max := findMaxValue(d.yValues)
	gridStep := calculateGridStep(max)
	if gridStep <= 0 {
		return nil
	}
	format := "%.0f"
	if gridStep < 1 {
		format = "%.1f"
	}
	top := math.Ceil(max/gridStep) * gridStep
	for i := 0.0; i <= top+gridStep/2; i += gridStep {
		ticks = append(ticks, chart.Tick{
			Value: i,
			Label: fmt.Sprintf(format, i),
		})
	}
	return ticks
}
