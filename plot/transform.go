package plot

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/pivolan/ocorrencias_analyzer/present"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"02/01/2006",
}

// normalizeDate reduces a date or timestamp cell to its calendar day.
func normalizeDate(v interface{}) (string, error) {
	switch val := v.(type) {
	case time.Time:
		return val.Format("2006-01-02"), nil
	case nil:
		return "", nil
	}
	s := strings.TrimSpace(present.FormatValue(v))
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

// toFloat reads a numeric cell. NULL counts as zero.
func toFloat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(val)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(val), 64)
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", v, v)
	}
}

// cell reads a category cell. NULL is missing, the empty string is a value of
// its own.
func cell(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := present.FormatValue(v)
	return &s
}

// ValueCounts counts the present values, most frequent first. Ties keep the
// order in which the values first appeared. Nil entries are missing.
func ValueCounts(values []*string) []models.ValueCount {
	index := make(map[string]int)
	var counts []models.ValueCount
	for _, p := range values {
		if p == nil {
			continue
		}
		v := *p
		i, ok := index[v]
		if !ok {
			i = len(counts)
			index[v] = i
			counts = append(counts, models.ValueCount{Value: v})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// TopN keeps the first n counts. n <= 0 keeps everything.
func TopN(counts []models.ValueCount, n int) []models.ValueCount {
	if n <= 0 || n >= len(counts) {
		return counts
	}
	return counts[:n]
}

// SortByValue orders counts by category ascending.
func SortByValue(counts []models.ValueCount) []models.ValueCount {
	sorted := append([]models.ValueCount(nil), counts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value < sorted[j].Value
	})
	return sorted
}

// CrossTab counts the pairs (row, col), skipping pairs with a nil side. Rows
// and columns are sorted ascending and missing pairs count as zero.
func CrossTab(rows, cols []*string) (rowKeys, colKeys []string, table [][]float64) {
	counts := make(map[[2]string]float64)
	seenRow := make(map[string]bool)
	seenCol := make(map[string]bool)
	for i := range rows {
		if rows[i] == nil || cols[i] == nil {
			continue
		}
		r, c := *rows[i], *cols[i]
		counts[[2]string{r, c}]++
		if !seenRow[r] {
			seenRow[r] = true
			rowKeys = append(rowKeys, r)
		}
		if !seenCol[c] {
			seenCol[c] = true
			colKeys = append(colKeys, c)
		}
	}
	sort.Strings(rowKeys)
	sort.Strings(colKeys)

	table = make([][]float64, len(colKeys))
	for j, c := range colKeys {
		table[j] = make([]float64, len(rowKeys))
		for i, r := range rowKeys {
			table[j][i] = counts[[2]string{r, c}]
		}
	}
	return rowKeys, colKeys, table
}

type ranked struct {
	category string
	value    float64
}

// largest orders categories by value descending, keeping the row order of
// ties, and keeps the first n. n <= 0 keeps everything.
func largest(items []ranked, n int) []ranked {
	sorted := append([]ranked(nil), items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].value > sorted[j].value
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
