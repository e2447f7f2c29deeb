// Package present turns query results into what the surfaces show: a bounded
// preview, a row slider, tables and the CSV download.
package present

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pivolan/ocorrencias_analyzer/domain/models"
)

const (
	ExportFileName    = "resultados.csv"
	ExportContentType = "text/csv"

	// DefaultRows is the preview size used when nothing else is requested.
	DefaultRows = 10

	HTMLTableClass = "resultado"
)

// SliderBounds returns the range of the "rows to show" control for a result
// with total rows. ok is false when there is nothing to show.
func SliderBounds(total int) (min, max, value int, ok bool) {
	if total < 1 {
		return 0, 0, 0, false
	}
	return 1, total, ClampRows(DefaultRows, total), true
}

// ClampRows bounds a requested row count to [1, total]. It returns 0 for an
// empty result.
func ClampRows(requested, total int) int {
	if total < 1 {
		return 0
	}
	if requested < 1 {
		return 1
	}
	if requested > total {
		return total
	}
	return requested
}

// Render returns the first maxRows rows of result in result order.
func Render(result *models.QueryResult, maxRows int) *models.QueryResult {
	return result.Head(ClampRows(maxRows, result.Len()))
}

// ExportCSV serializes the whole result, header first, without an index
// column. The preview size never affects it.
func ExportCSV(result *models.QueryResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	var columns []string
	if result != nil {
		columns = result.Columns
	}
	if err := w.Write(columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	record := make([]string, len(columns))
	for i := 0; i < result.Len(); i++ {
		row := result.Rows[i]
		for j, c := range columns {
			record[j] = FormatValue(row[c])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FormatValue renders one cell. NULL becomes an empty string and midnight
// timestamps lose their time part.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		if val.Hour() == 0 && val.Minute() == 0 && val.Second() == 0 && val.Nanosecond() == 0 {
			return val.Format("2006-01-02")
		}
		return val.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func newTable(result *models.QueryResult, maxRows int) table.Writer {
	t := table.NewWriter()
	preview := Render(result, maxRows)

	header := make(table.Row, len(preview.Columns))
	for i, c := range preview.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range preview.Rows {
		row := make(table.Row, len(preview.Columns))
		for i, c := range preview.Columns {
			row[i] = FormatValue(r[c])
		}
		t.AppendRow(row)
	}
	return t
}

// TextTable renders the preview as a box-drawn table for the bot and the CLI.
func TextTable(result *models.QueryResult, maxRows int) string {
	if result.Empty() {
		return "(0 linhas)"
	}
	t := newTable(result, maxRows)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t.Render()
}

func HTMLTable(result *models.QueryResult, maxRows int) string {
	t := newTable(result, maxRows)
	t.SetStyle(table.StyleDefault)
	t.Style().Format.Header = text.FormatDefault
	t.Style().HTML = table.HTMLOptions{
		CSSClass:    HTMLTableClass,
		EmptyColumn: "&nbsp;",
		EscapeText:  true,
		Newline:     "<br/>",
	}
	return t.RenderHTML()
}
