package models

import "strings"

// QueryDefinition is one entry of the fixed query catalog.
type QueryDefinition struct {
	Number    int
	Label     string
	Statement string
}

// QueryResult is a materialized table. Columns keeps the order reported by the
// database, every row is keyed by column name.
type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

func (r *QueryResult) Empty() bool {
	return r.Len() == 0
}

// Column resolves name against the result columns ignoring case and returns
// the spelling used by the result.
func (r *QueryResult) Column(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, c := range r.Columns {
		if c == name {
			return c, true
		}
	}
	for _, c := range r.Columns {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// Head returns a result sharing the first n rows. n is not validated beyond
// the bounds of the slice.
func (r *QueryResult) Head(n int) *QueryResult {
	if r == nil {
		return &QueryResult{}
	}
	if n < 0 {
		n = 0
	}
	if n > r.Len() {
		n = r.Len()
	}
	return &QueryResult{Columns: r.Columns, Rows: r.Rows[:n:n]}
}

// WithColumn returns a copy of r with an extra column. values must hold one
// entry per row. The receiver is left untouched.
func (r *QueryResult) WithColumn(name string, values []interface{}) *QueryResult {
	columns := make([]string, 0, len(r.Columns)+1)
	columns = append(columns, r.Columns...)
	columns = append(columns, name)

	rows := make([]map[string]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		cp := make(map[string]interface{}, len(row)+1)
		for k, v := range row {
			cp[k] = v
		}
		cp[name] = values[i]
		rows[i] = cp
	}
	return &QueryResult{Columns: columns, Rows: rows}
}

// ValueCount is one category of a frequency table.
type ValueCount struct {
	Value string
	Count int64
}
