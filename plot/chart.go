package plot

// Kind selects how a recipe turns a result into bars.
type Kind string

const (
	// KindFrequency counts the values of one column.
	KindFrequency Kind = "frequency-bar"
	// KindGrouped plots a category column against a numeric column.
	KindGrouped Kind = "grouped-bar"
	// KindStacked cross-tabulates two columns into stacked bars.
	KindStacked Kind = "stacked-bar"
	// KindMultiSeries plots several numeric columns side by side.
	KindMultiSeries Kind = "multiseries-bar"
)

type Series struct {
	Name   string
	Values []float64
}

// Chart is the backend independent outcome of applying a recipe. Every series
// holds one value per category.
type Chart struct {
	Label        string
	Kind         Kind
	Title        string
	XAxis        string
	YAxis        string
	Categories   []string
	Series       []Series
	Color        string
	RotateLabels bool
}

func (c *Chart) Stacked() bool {
	return c.Kind == KindStacked
}

func (c *Chart) Empty() bool {
	return c == nil || len(c.Categories) == 0 || len(c.Series) == 0
}

// Total sums every value of every series.
func (c *Chart) Total() float64 {
	var sum float64
	for _, s := range c.Series {
		for _, v := range s.Values {
			sum += v
		}
	}
	return sum
}

// hex colors without the leading '#', the form drawing.ColorFromHex takes
var colors = map[string]string{
	"blue":   "1f77b4",
	"green":  "2ca02c",
	"orange": "ff7f0e",
	"purple": "800080",
	"teal":   "008080",
}

var seriesPalette = []string{"1f77b4", "ff7f0e", "2ca02c", "d62728", "9467bd", "8c564b", "e377c2", "7f7f7f", "bcbd22", "17becf"}

// seriesColor returns the color of series i: the recipe color for single
// series charts, the palette otherwise.
func (c *Chart) seriesColor(i int) string {
	if len(c.Series) == 1 {
		if hex, ok := colors[c.Color]; ok {
			return hex
		}
	}
	return seriesPalette[i%len(seriesPalette)]
}
