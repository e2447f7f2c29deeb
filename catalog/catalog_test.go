package catalog

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())

	for i, label := range c.Labels() {
		assert.True(t, strings.HasPrefix(label, fmt.Sprintf("%d. ", i+1)), label)

		stmt, err := c.GetStatement(label)
		require.NoError(t, err)
		assert.NotEmpty(t, strings.TrimSpace(stmt))
		assert.Contains(t, strings.ToUpper(stmt), "SELECT")
	}
	assert.Equal(t, LabelDescricaoData2024, c.First())
}

func TestGetStatementUnknownLabel(t *testing.T) {
	c := Default()
	_, err := c.GetStatement("11. Consulta inexistente")

	var unknown *UnknownLabelError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "11. Consulta inexistente", unknown.Label)
	assert.False(t, c.Has("11. Consulta inexistente"))
}

func TestByNumber(t *testing.T) {
	c := Default()

	d, err := c.ByNumber(7)
	require.NoError(t, err)
	assert.Equal(t, LabelDecolagem, d.Label)
	assert.Equal(t, 7, d.Number)

	for _, n := range []int{0, 11, -1} {
		_, err := c.ByNumber(n)
		var unknown *UnknownNumberError
		assert.True(t, errors.As(err, &unknown), n)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New(
		models.QueryDefinition{Label: "a", Statement: "SELECT 1"},
		models.QueryDefinition{Label: "a", Statement: "SELECT 2"},
	)
	assert.Error(t, err)

	_, err = New(models.QueryDefinition{Label: "a"})
	assert.Error(t, err)
}

func TestDefinitionsIsACopy(t *testing.T) {
	c := Default()
	defs := c.Definitions()
	defs[0].Statement = "DROP TABLE ocorrencia"

	stmt, err := c.GetStatement(LabelDescricaoData2024)
	require.NoError(t, err)
	assert.NotContains(t, stmt, "DROP")
}
