package plot

import "fmt"

// Derive builds a text column by joining two existing columns.
type Derive struct {
	Name      string
	Left      string
	Right     string
	Separator string
}

// Recipe describes how to chart the result of one catalog query.
type Recipe struct {
	Label string
	Kind  Kind

	// Column holds the categories. For KindFrequency it is counted, for
	// KindStacked it gives the bars.
	Column string
	// StackColumn gives the stacked segments of KindStacked.
	StackColumn string
	// ValueColumns holds the numeric columns of KindGrouped (one) and
	// KindMultiSeries (one series each).
	ValueColumns []string

	Derive *Derive
	// ParseDate normalizes Column to dates before counting.
	ParseDate bool
	// TopN keeps the N largest categories when positive.
	TopN int
	// SortByCategory reorders the kept categories ascending.
	SortByCategory bool

	Title        string
	XAxis        string
	YAxis        string
	Color        string
	RotateLabels bool
}

// columns lists every result column the recipe reads, in lookup order.
func (r Recipe) columns() []string {
	var cols []string
	if r.Derive != nil {
		cols = append(cols, r.Derive.Left, r.Derive.Right)
	} else if r.Column != "" {
		cols = append(cols, r.Column)
	}
	if r.StackColumn != "" {
		cols = append(cols, r.StackColumn)
	}
	return append(cols, r.ValueColumns...)
}

func (r Recipe) validate() error {
	if r.Column == "" {
		return fmt.Errorf("recipe %q: no category column", r.Label)
	}
	switch r.Kind {
	case KindFrequency:
		if r.Derive != nil && r.Derive.Name != r.Column {
			return fmt.Errorf("recipe %q: derived column %q is not counted", r.Label, r.Derive.Name)
		}
	case KindGrouped:
		if len(r.ValueColumns) != 1 {
			return fmt.Errorf("recipe %q: grouped bars need exactly one value column", r.Label)
		}
	case KindStacked:
		if r.StackColumn == "" {
			return fmt.Errorf("recipe %q: no stack column", r.Label)
		}
	case KindMultiSeries:
		if len(r.ValueColumns) == 0 {
			return fmt.Errorf("recipe %q: no value columns", r.Label)
		}
	default:
		return fmt.Errorf("recipe %q: unknown kind %q", r.Label, r.Kind)
	}
	return nil
}
