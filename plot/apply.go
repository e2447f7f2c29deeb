package plot

import (
	"fmt"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/pivolan/ocorrencias_analyzer/present"
)

// MissingColumnError reports a recipe column absent from the result. Its
// message is the warning shown to the user.
type MissingColumnError struct {
	Label  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("A coluna '%s' não foi encontrada no resultado da consulta.", e.Column)
}

// Apply builds the chart of recipe r from result. It never modifies result.
func Apply(r Recipe, result *models.QueryResult) (*Chart, error) {
	resolved := make(map[string]string)
	for _, name := range r.columns() {
		actual, ok := result.Column(name)
		if !ok {
			return nil, &MissingColumnError{Label: r.Label, Column: name}
		}
		resolved[name] = actual
	}

	c := &Chart{
		Label:        r.Label,
		Kind:         r.Kind,
		Title:        r.Title,
		XAxis:        r.XAxis,
		YAxis:        r.YAxis,
		Color:        r.Color,
		RotateLabels: r.RotateLabels,
	}

	var err error
	switch r.Kind {
	case KindFrequency:
		err = applyFrequency(c, r, resolved, result)
	case KindGrouped:
		err = applyGrouped(c, r, resolved, result)
	case KindStacked:
		applyStacked(c, resolved[r.Column], resolved[r.StackColumn], result)
	case KindMultiSeries:
		err = applyMultiSeries(c, r, resolved, result)
	default:
		err = fmt.Errorf("unknown chart kind %q", r.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Label, err)
	}
	return c, nil
}

func applyFrequency(c *Chart, r Recipe, resolved map[string]string, result *models.QueryResult) error {
	src, column := result, resolved[r.Column]
	if d := r.Derive; d != nil {
		left, right := resolved[d.Left], resolved[d.Right]
		values := make([]interface{}, result.Len())
		for i, row := range result.Rows {
			if row[left] == nil || row[right] == nil {
				continue
			}
			values[i] = present.FormatValue(row[left]) + d.Separator + present.FormatValue(row[right])
		}
		src, column = result.WithColumn(d.Name, values), d.Name
	}

	values := make([]*string, src.Len())
	for i, row := range src.Rows {
		if !r.ParseDate {
			values[i] = cell(row[column])
			continue
		}
		day, err := normalizeDate(row[column])
		if err != nil {
			return err
		}
		// blank dates are missing, like NULL
		if day != "" {
			values[i] = &day
		}
	}

	counts := TopN(ValueCounts(values), r.TopN)
	if r.SortByCategory {
		counts = SortByValue(counts)
	}
	s := Series{Name: r.YAxis, Values: make([]float64, len(counts))}
	for i, vc := range counts {
		c.Categories = append(c.Categories, vc.Value)
		s.Values[i] = float64(vc.Count)
	}
	c.Series = []Series{s}
	return nil
}

func applyGrouped(c *Chart, r Recipe, resolved map[string]string, result *models.QueryResult) error {
	category, value := resolved[r.Column], resolved[r.ValueColumns[0]]
	items := make([]ranked, 0, result.Len())
	for _, row := range result.Rows {
		v, err := toFloat(row[value])
		if err != nil {
			return fmt.Errorf("column %s: %w", value, err)
		}
		items = append(items, ranked{category: present.FormatValue(row[category]), value: v})
	}

	items = largest(items, r.TopN)
	s := Series{Name: r.YAxis, Values: make([]float64, len(items))}
	for i, it := range items {
		c.Categories = append(c.Categories, it.category)
		s.Values[i] = it.value
	}
	c.Series = []Series{s}
	return nil
}

func applyStacked(c *Chart, column, stack string, result *models.QueryResult) {
	rows := make([]*string, result.Len())
	cols := make([]*string, result.Len())
	for i, row := range result.Rows {
		rows[i] = cell(row[column])
		cols[i] = cell(row[stack])
	}
	categories, names, table := CrossTab(rows, cols)
	c.Categories = categories
	for j, name := range names {
		c.Series = append(c.Series, Series{Name: name, Values: table[j]})
	}
}

func applyMultiSeries(c *Chart, r Recipe, resolved map[string]string, result *models.QueryResult) error {
	category := resolved[r.Column]
	for _, row := range result.Rows {
		c.Categories = append(c.Categories, present.FormatValue(row[category]))
	}
	for _, name := range r.ValueColumns {
		column := resolved[name]
		s := Series{Name: column, Values: make([]float64, result.Len())}
		for i, row := range result.Rows {
			v, err := toFloat(row[column])
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			s.Values[i] = v
		}
		c.Series = append(c.Series, s)
	}
	return nil
}
