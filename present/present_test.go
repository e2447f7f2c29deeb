package present

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(n int) *models.QueryResult {
	res := &models.QueryResult{Columns: []string{"Numero_da_Ocorrencia", "Fase_da_Operacao"}}
	for i := 0; i < n; i++ {
		res.Rows = append(res.Rows, map[string]interface{}{
			"Numero_da_Ocorrencia": int64(1000 + i),
			"Fase_da_Operacao":     "Decolagem",
		})
	}
	return res
}

func TestSliderBounds(t *testing.T) {
	tests := []struct {
		total           int
		min, max, value int
		ok              bool
	}{
		{total: 0, ok: false},
		{total: 1, min: 1, max: 1, value: 1, ok: true},
		{total: 7, min: 1, max: 7, value: 7, ok: true},
		{total: 10, min: 1, max: 10, value: 10, ok: true},
		{total: 250, min: 1, max: 250, value: 10, ok: true},
	}
	for _, tt := range tests {
		min, max, value, ok := SliderBounds(tt.total)
		assert.Equal(t, tt.ok, ok, "total %d", tt.total)
		if !ok {
			continue
		}
		assert.Equal(t, tt.min, min)
		assert.Equal(t, tt.max, max)
		assert.Equal(t, tt.value, value)
		assert.LessOrEqual(t, min, max)
	}
}

func TestClampRows(t *testing.T) {
	assert.Equal(t, 0, ClampRows(10, 0))
	assert.Equal(t, 1, ClampRows(0, 5))
	assert.Equal(t, 1, ClampRows(-3, 5))
	assert.Equal(t, 3, ClampRows(3, 5))
	assert.Equal(t, 5, ClampRows(50, 5))
}

func TestRenderIsPrefix(t *testing.T) {
	res := sampleResult(25)

	for _, n := range []int{1, 10, 25, 1000} {
		preview := Render(res, n)
		want := n
		if want > res.Len() {
			want = res.Len()
		}
		require.Equal(t, want, preview.Len())
		assert.Equal(t, res.Columns, preview.Columns)
		for i := range preview.Rows {
			assert.Equal(t, res.Rows[i], preview.Rows[i])
		}
	}
	assert.Equal(t, 25, res.Len(), "source is untouched")
}

func TestRenderEmpty(t *testing.T) {
	preview := Render(sampleResult(0), 10)
	assert.True(t, preview.Empty())
}

func TestExportCSVIgnoresPreview(t *testing.T) {
	res := sampleResult(30)
	Render(res, 5)

	b, err := ExportCSV(res)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 31)
	assert.Equal(t, []string{"Numero_da_Ocorrencia", "Fase_da_Operacao"}, records[0])
	assert.Equal(t, []string{"1000", "Decolagem"}, records[1])
	assert.Equal(t, []string{"1029", "Decolagem"}, records[30])
}

func TestExportCSVQuoting(t *testing.T) {
	res := &models.QueryResult{
		Columns: []string{"Descricao", "Data_Da_Ocorrencia"},
		Rows: []map[string]interface{}{
			{"Descricao": "Colisão com ave, \"urubu\"", "Data_Da_Ocorrencia": "2024-01-05"},
			{"Descricao": nil, "Data_Da_Ocorrencia": "2024-02-10"},
		},
	}
	b, err := ExportCSV(res)
	require.NoError(t, err)

	want := "Descricao,Data_Da_Ocorrencia\n" +
		"\"Colisão com ave, \"\"urubu\"\"\",2024-01-05\n" +
		",2024-02-10\n"
	assert.Equal(t, want, string(b))
}

func TestExportCSVEmptyKeepsHeader(t *testing.T) {
	b, err := ExportCSV(sampleResult(0))
	require.NoError(t, err)
	assert.Equal(t, "Numero_da_Ocorrencia,Fase_da_Operacao\n", string(b))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"SBGR", "SBGR"},
		{[]byte("SBSP"), "SBSP"},
		{int64(42), "42"},
		{3.5, "3.5"},
		{float64(12), "12"},
		{true, "true"},
		{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "2024-03-01"},
		{time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC), "2024-03-01 14:30:00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.in))
	}
}

func TestTextTable(t *testing.T) {
	out := TextTable(sampleResult(15), 3)
	assert.Contains(t, out, "Numero_da_Ocorrencia")
	assert.Contains(t, out, "1002")
	assert.NotContains(t, out, "1003")

	assert.Equal(t, "(0 linhas)", TextTable(sampleResult(0), 10))
}

func TestHTMLTable(t *testing.T) {
	res := &models.QueryResult{
		Columns: []string{"Descricao"},
		Rows:    []map[string]interface{}{{"Descricao": "<b>pane</b>"}},
	}
	out := HTMLTable(res, 10)
	assert.True(t, strings.HasPrefix(out, "<table class=\""+HTMLTableClass+"\">"))
	assert.Contains(t, out, "Descricao")
	assert.Contains(t, out, "&lt;b&gt;pane&lt;/b&gt;")
}
