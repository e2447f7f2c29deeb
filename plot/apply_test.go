package plot

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pivolan/ocorrencias_analyzer/catalog"
	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recipeFor(t *testing.T, label string) Recipe {
	t.Helper()
	r, ok := DefaultRegistry().Lookup(label)
	require.True(t, ok, label)
	return r
}

func result(columns []string, rows ...[]interface{}) *models.QueryResult {
	res := &models.QueryResult{Columns: columns, Rows: []map[string]interface{}{}}
	for _, r := range rows {
		row := make(map[string]interface{}, len(columns))
		for i, c := range columns {
			row[c] = r[i]
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func cells(values ...interface{}) []*string {
	out := make([]*string, len(values))
	for i, v := range values {
		out[i] = cell(v)
	}
	return out
}

func TestValueCountsIsCountStable(t *testing.T) {
	counts := ValueCounts(cells("Pouso", "Decolagem", "Cruzeiro", "Decolagem", "Pouso", nil, "Taxi"))
	assert.Equal(t, []models.ValueCount{
		{Value: "Pouso", Count: 2},
		{Value: "Decolagem", Count: 2},
		{Value: "Cruzeiro", Count: 1},
		{Value: "Taxi", Count: 1},
	}, counts)

	assert.Len(t, TopN(counts, 3), 3)
	assert.Len(t, TopN(counts, 0), 4)
	assert.Len(t, TopN(counts, 50), 4)
	assert.Equal(t, "Cruzeiro", SortByValue(counts)[0].Value)
	assert.Equal(t, "Pouso", counts[0].Value, "SortByValue works on a copy")
}

func TestCrossTabFillsZeros(t *testing.T) {
	rows, cols, table := CrossTab(
		cells("SBGR", "SBCF", "SBGR", "SBGR", nil, "SBSP"),
		cells("Incidente", "Acidente", "Incidente", "Incidente Grave", "Acidente", nil),
	)
	assert.Equal(t, []string{"SBCF", "SBGR"}, rows)
	assert.Equal(t, []string{"Acidente", "Incidente", "Incidente Grave"}, cols)
	assert.Equal(t, [][]float64{{1, 0}, {0, 2}, {0, 1}}, table)
}

func TestApplyFrequencyCountsEmptyStrings(t *testing.T) {
	res := result([]string{"Fase_da_Operacao"},
		[]interface{}{""},
		[]interface{}{""},
		[]interface{}{""},
		[]interface{}{"Pouso"},
		[]interface{}{nil},
	)
	c, err := Apply(recipeFor(t, catalog.LabelVooPrivado), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Pouso"}, c.Categories)
	assert.Equal(t, []float64{3, 1}, c.Series[0].Values)
}

func TestApplyStackedKeepsEmptyStrings(t *testing.T) {
	res := result([]string{"Aerodromo_de_Origem", "Data_da_Ocorrencia", "Classificacao_da_Ocorrencia"},
		[]interface{}{"", "2024-01-01", "Incidente"},
		[]interface{}{"SBGR", "2024-01-02", nil},
		[]interface{}{"SBGR", "2024-01-03", "Incidente"},
	)
	c, err := Apply(recipeFor(t, catalog.LabelOrigem2024), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "SBGR"}, c.Categories)
	require.Len(t, c.Series, 1)
	assert.Equal(t, Series{Name: "Incidente", Values: []float64{1, 1}}, c.Series[0])
}

func TestNormalizeDate(t *testing.T) {
	for _, in := range []interface{}{
		"2024-03-01",
		"2024-03-01 10:20:00",
		"2024-03-01T10:20:00Z",
		[]byte("01/03/2024"),
		time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC),
	} {
		got, err := normalizeDate(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, "2024-03-01", got)
	}

	_, err := normalizeDate("ontem")
	assert.Error(t, err)
}

func TestRegistryMatchesCatalog(t *testing.T) {
	reg := DefaultRegistry()
	labels := catalog.Default().Labels()

	require.NoError(t, reg.Validate(labels))
	assert.ElementsMatch(t, labels, reg.Labels())

	err := reg.Validate(labels[:9])
	require.Error(t, err)
	assert.Contains(t, err.Error(), catalog.LabelOcorrenciasPorFabricante)
}

func TestNewRegistryRejectsInvalidRecipes(t *testing.T) {
	_, err := NewRegistry(Recipe{Label: "x", Kind: KindGrouped, Column: "ICAO"})
	assert.Error(t, err)

	_, err = NewRegistry(Recipe{Label: "x", Kind: KindStacked, Column: "ICAO"})
	assert.Error(t, err)

	_, err = NewRegistry(Recipe{Label: "x", Kind: "pie", Column: "ICAO"})
	assert.Error(t, err)

	ok := Recipe{Label: "x", Kind: KindFrequency, Column: "ICAO"}
	_, err = NewRegistry(ok, ok)
	assert.Error(t, err)
}

func TestApplyTopDates(t *testing.T) {
	var rows [][]interface{}
	// 12 distinct days, day d occurs d times
	for d := 1; d <= 12; d++ {
		for i := 0; i < d; i++ {
			rows = append(rows, []interface{}{"ocorrência", fmt.Sprintf("2024-01-%02d", d)})
		}
	}
	// the statement spells the column Data_Da_Ocorrencia
	res := result([]string{"Descricao", "Data_Da_Ocorrencia"}, rows...)

	c, err := Apply(recipeFor(t, catalog.LabelDescricaoData2024), res)
	require.NoError(t, err)

	want := make([]string, 0, 10)
	for d := 3; d <= 12; d++ {
		want = append(want, fmt.Sprintf("2024-01-%02d", d))
	}
	assert.Equal(t, want, c.Categories, "ten busiest days sorted by date")
	assert.Equal(t, 3.0, c.Series[0].Values[0])
	assert.Equal(t, "Top 10 Datas com Mais Ocorrências", c.Title)
	assert.Equal(t, "Data", c.XAxis)
	assert.Equal(t, "blue", c.Color)
}

func TestApplyInvalidDate(t *testing.T) {
	res := result([]string{"Descricao", "Data_da_Ocorrencia"}, []interface{}{"x", "31/31/2024"})
	_, err := Apply(recipeFor(t, catalog.LabelDescricaoData2024), res)
	require.Error(t, err)

	var missing *MissingColumnError
	assert.False(t, errors.As(err, &missing))
}

func TestApplyDerivedOriginDestination(t *testing.T) {
	res := result([]string{"Aerodromo_de_Destino", "Aerodromo_de_Origem"},
		[]interface{}{"SBSP", "SBGR"},
		[]interface{}{"SBSP", "SBGR"},
		[]interface{}{"SBRJ", "SBCF"},
		[]interface{}{nil, "SBCF"},
	)

	c, err := Apply(recipeFor(t, catalog.LabelDecolagem), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"SBGR -> SBSP", "SBCF -> SBRJ"}, c.Categories)
	assert.Equal(t, []float64{2, 1}, c.Series[0].Values)
	assert.Equal(t, []string{"Aerodromo_de_Destino", "Aerodromo_de_Origem"}, res.Columns, "result untouched")
	assert.NotContains(t, res.Rows[0], "Origem_Destino")
}

func TestApplyTopNBounds(t *testing.T) {
	var rows [][]interface{}
	for i := 0; i < 40; i++ {
		rows = append(rows, []interface{}{fmt.Sprintf("SB%02d", i%15), "Colisão com ave"})
	}
	res := result([]string{"Aerodromo_de_Origem", "tipo_descricao"}, rows...)

	c, err := Apply(recipeFor(t, catalog.LabelSemPassageirosIlesos), res)
	require.NoError(t, err)
	assert.Len(t, c.Categories, 10)
	assert.Equal(t, 30.0, c.Total())
	assert.LessOrEqual(t, c.Total(), float64(res.Len()))
}

func TestApplyFrequencyCaseInsensitiveColumn(t *testing.T) {
	res := result([]string{"tipo_descricao", "Data_da_Ocorrencia", "Classificacao_da_Ocorrencia"},
		[]interface{}{"Falha de motor", "2024-01-01", "Incidente"},
		[]interface{}{"Colisão com ave", "2024-01-02", "Incidente"},
		[]interface{}{"Colisão com ave", "2024-01-03", "Acidente"},
	)
	c, err := Apply(recipeFor(t, catalog.LabelConfins), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"Colisão com ave", "Falha de motor"}, c.Categories)
	assert.Equal(t, "green", c.Color)
}

func TestApplyStacked(t *testing.T) {
	res := result([]string{"Aerodromo_de_Origem", "Data_da_Ocorrencia", "Classificacao_da_Ocorrencia"},
		[]interface{}{"SBGR", "2024-01-01", "Incidente"},
		[]interface{}{"SBCF", "2024-01-02", "Acidente"},
		[]interface{}{"SBGR", "2024-01-03", "Incidente"},
	)
	c, err := Apply(recipeFor(t, catalog.LabelOrigem2024), res)
	require.NoError(t, err)
	assert.True(t, c.Stacked())
	assert.Equal(t, []string{"SBCF", "SBGR"}, c.Categories)
	require.Len(t, c.Series, 2)
	assert.Equal(t, Series{Name: "Acidente", Values: []float64{1, 0}}, c.Series[0])
	assert.Equal(t, Series{Name: "Incidente", Values: []float64{0, 2}}, c.Series[1])
}

func TestApplyGroupedTopByValue(t *testing.T) {
	var rows [][]interface{}
	for i := 0; i < 12; i++ {
		rows = append(rows, []interface{}{int64(i % 4), fmt.Sprintf("SB%02d", i)})
	}
	res := result([]string{"qtd_ocorrencias", "ICAO"}, rows...)

	c, err := Apply(recipeFor(t, catalog.LabelAcidentesAerodromoPublico), res)
	require.NoError(t, err)
	require.Len(t, c.Categories, 10)
	// ties keep row order
	assert.Equal(t, []string{"SB03", "SB07", "SB11", "SB02", "SB06"}, c.Categories[:5])
	assert.Equal(t, []float64{3, 3, 3, 2, 2}, c.Series[0].Values[:5])
	assert.Equal(t, "Código ICAO", c.XAxis)
	assert.True(t, c.RotateLabels)
}

func TestApplyGroupedParsesTextNumbers(t *testing.T) {
	res := result([]string{"Nome_do_Fabricante", "qtd_ocorrencias"},
		[]interface{}{"EMBRAER", "7"},
		[]interface{}{"CESSNA AIRCRAFT", []byte("9")},
	)
	c, err := Apply(recipeFor(t, catalog.LabelOcorrenciasPorFabricante), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"CESSNA AIRCRAFT", "EMBRAER"}, c.Categories)

	res = result([]string{"Nome_do_Fabricante", "qtd_ocorrencias"}, []interface{}{"EMBRAER", "muitas"})
	_, err = Apply(recipeFor(t, catalog.LabelOcorrenciasPorFabricante), res)
	assert.Error(t, err)
}

func TestApplyMultiSeries(t *testing.T) {
	res := result([]string{"Regiao", "qtd_incidentes_graves", "qtd_acidentes"},
		[]interface{}{"Sudeste", int64(5), int64(9)},
		[]interface{}{"Norte", int64(2), int64(0)},
	)
	c, err := Apply(recipeFor(t, catalog.LabelAcidentesIncidentesRegiao), res)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sudeste", "Norte"}, c.Categories)
	assert.Equal(t, []Series{
		{Name: "qtd_incidentes_graves", Values: []float64{5, 2}},
		{Name: "qtd_acidentes", Values: []float64{9, 0}},
	}, c.Series)
}

func TestApplyMissingColumn(t *testing.T) {
	tests := []struct {
		label  string
		res    *models.QueryResult
		column string
	}{
		{catalog.LabelAcidentesAerodromoPublico, result([]string{"total", "ICAO"}), "qtd_ocorrencias"},
		{catalog.LabelOcorrenciasPorFabricante, result([]string{"Nome_do_Fabricante"}), "qtd_ocorrencias"},
		{catalog.LabelConfins, result([]string{"Descricao"}), "Tipo_descricao"},
		{catalog.LabelDecolagem, result([]string{"Aerodromo_de_Origem"}), "Aerodromo_de_Destino"},
		{catalog.LabelOrigem2024, result([]string{"Aerodromo_de_Origem"}), "Classificacao_da_Ocorrencia"},
	}
	for _, tt := range tests {
		_, err := Apply(recipeFor(t, tt.label), tt.res)

		var missing *MissingColumnError
		require.True(t, errors.As(err, &missing), tt.label)
		assert.Equal(t, tt.column, missing.Column)
		assert.Equal(t, tt.label, missing.Label)
		assert.Equal(t, fmt.Sprintf("A coluna '%s' não foi encontrada no resultado da consulta.", tt.column), err.Error())
	}
}

func TestApplyEmptyResult(t *testing.T) {
	c, err := Apply(recipeFor(t, catalog.LabelSemPassageirosIlesos),
		result([]string{"Aerodromo_de_Origem", "tipo_descricao"}))
	require.NoError(t, err)
	assert.True(t, c.Empty())
}
