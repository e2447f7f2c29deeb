package plot

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrEmptyChart is returned when a chart has no bars to draw.
var ErrEmptyChart = errors.New("sem dados para o gráfico")

// RenderPNG draws c as a PNG bar chart.
func RenderPNG(c *Chart) ([]byte, error) {
	if c.Empty() {
		return nil, ErrEmptyChart
	}
	if c.Stacked() {
		return DrawStackedBar(c)
	}
	return DrawPlotBar(newDataXStringsForGraph(c))
}

func calculateGridStep(maxValue float64) float64 {
	if maxValue <= 0 {
		return 0
	}
	if maxValue < 1e-10 {
		return 1e-10
	}

	// order of magnitude, then the value normalized to [1, 10)
	magnitude := math.Pow(10, math.Floor(math.Log10(maxValue)))
	normalized := maxValue / magnitude

	var step float64
	switch {
	case normalized <= 1:
		step = 0.2
	case normalized <= 2:
		step = 0.5
	case normalized <= 5:
		step = 1.0
	default:
		step = 2.0
	}
	finalStep := step * magnitude

	// round large steps to nice numbers
	if finalStep >= 1000 {
		return math.Round(finalStep/100) * 100
	}
	if finalStep >= 100 {
		return math.Round(finalStep/10) * 10
	}
	// counts never need fractional grid lines above one
	if maxValue >= 1 && finalStep < 1 {
		return 1
	}
	return finalStep
}

func DrawPlotBar(data dataForGraph) ([]byte, error) {
	barValues := data.generateBarValues()
	if len(barValues) == 0 {
		return nil, ErrEmptyChart
	}
	paddingX := customizePaddingXBottom(barValues)
	width, height := data.calculateChartDimensions(100)
	ticks := data.generateGrid()

	maxY := findMaxValue(data.getYValues())
	if len(ticks) > 0 {
		maxY = ticks[len(ticks)-1].Value
	}
	if maxY <= 0 {
		maxY = 1
		ticks = nil
	}

	bar := chart.BarChart{}
	bar.Title = data.GetNameGraph()
	bar.TitleStyle = chart.Style{FontSize: 14}
	bar.Background = chart.Style{
		StrokeColor: chart.ColorBlack,
		Padding: chart.Box{
			Bottom: paddingX,
			Top:    50,
			Left:   20,
			Right:  20,
		},
	}
	bar.Height = height + paddingX + 50
	bar.Width = width + 50
	bar.BarWidth = 60
	bar.Bars = barValues
	bar.YAxis = chart.YAxis{
		Name: data.getNameYAxis(),
		Range: &chart.ContinuousRange{
			Min: 0.0,
			Max: maxY,
		},
		Style: chart.Style{
			StrokeWidth: 2,
			StrokeColor: chart.ColorBlack,
			FontSize:    12,
		},
		Ticks: ticks,
		GridMinorStyle: chart.Style{
			StrokeColor: chart.ColorBlack,
			StrokeWidth: 1,
			DotWidth:    1,
		},
		GridMajorStyle: chart.Style{
			StrokeColor:     chart.ColorBlack,
			StrokeWidth:     1,
			DotWidth:        1,
			StrokeDashArray: []float64{5.0, 5.0},
		},
	}
	bar.XAxis = chart.Style{
		StrokeWidth:         2,
		StrokeColor:         chart.ColorBlack,
		TextRotationDegrees: data.labelRotation(),
		FontSize:            12,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := bar.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// DrawStackedBar draws one stacked bar per category. go-chart scales every
// stacked bar to full height, so bar names carry the absolute totals.
func DrawStackedBar(c *Chart) ([]byte, error) {
	var bars []chart.StackedBar
	longest := 0
	for i, category := range c.Categories {
		var total float64
		for _, s := range c.Series {
			total += s.Values[i]
		}
		if total <= 0 {
			continue
		}

		var values []chart.Value
		for j, s := range c.Series {
			v := s.Values[i]
			if v <= 0 {
				continue
			}
			color := drawing.ColorFromHex(c.seriesColor(j))
			value := chart.Value{
				Value: v,
				Style: chart.Style{FillColor: color, StrokeColor: color, FontColor: chart.ColorWhite},
			}
			// small segments stay unlabeled
			if v/total >= 0.1 {
				value.Label = fmt.Sprintf("%s: %.0f", s.Name, v)
			}
			values = append(values, value)
		}

		name := fmt.Sprintf("%s (%.0f)", category, total)
		if len(name) > longest {
			longest = len(name)
		}
		bars = append(bars, chart.StackedBar{Name: name, Width: 80, Values: values})
	}
	if len(bars) == 0 {
		return nil, ErrEmptyChart
	}

	const barSpacing = 40
	sbc := chart.StackedBarChart{
		Title:      c.Title,
		TitleStyle: chart.Style{FontSize: 14},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    60,
				Left:   20,
				Right:  20,
				Bottom: 20 + longest*2,
			},
		},
		Width:      len(bars)*(80+barSpacing) + 200,
		Height:     800,
		BarSpacing: barSpacing,
		Bars:       bars,
	}
	if sbc.Width < 1024 {
		sbc.Width = 1024
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := sbc.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("error rendering chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func findMaxValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	max := y[0]
	for _, v := range y {
		if v > max {
			max = v
		}
	}
	return max
}

func customizePaddingXBottom(values []chart.Value) int {
	count := 0
	for _, v := range values {
		if len(v.Label) > count {
			count = len(v.Label)
		}
	}
	return count * 8
}

// FileName returns an ASCII file name for c built from its title.
func FileName(c *Chart, ext string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(unidecode.Unidecode(c.Title)) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "grafico"
	}
	return name + "." + strings.TrimPrefix(ext, ".")
}
