// Package dashboard runs one select-execute-present cycle for the surfaces:
// resolve the label, execute its statement, bound the preview and build the
// chart.
package dashboard

import (
	"context"
	"errors"
	"math"

	"github.com/pivolan/ocorrencias_analyzer/catalog"
	"github.com/pivolan/ocorrencias_analyzer/domain/models"
	"github.com/pivolan/ocorrencias_analyzer/plot"
	"github.com/pivolan/ocorrencias_analyzer/present"
	"github.com/rs/zerolog/log"
	uuid "github.com/satori/go.uuid"
)

// ErrNoChart is returned by Chart when the query has no recipe or nothing
// was found.
var ErrNoChart = errors.New("consulta sem gráfico")

// AutoRows asks Select for the default preview size.
const AutoRows = math.MinInt

// QueryExecutor runs a statement. *executor.Executor satisfies it.
type QueryExecutor interface {
	Execute(ctx context.Context, statement string) (*models.QueryResult, error)
}

type Dashboard struct {
	catalog  *catalog.Catalog
	executor QueryExecutor
	registry *plot.Registry
}

func New(c *catalog.Catalog, e QueryExecutor, r *plot.Registry) *Dashboard {
	return &Dashboard{catalog: c, executor: e, registry: r}
}

func (d *Dashboard) Catalog() *catalog.Catalog {
	return d.catalog
}

// Selection is everything a surface shows for one query.
type Selection struct {
	ID     uuid.UUID
	Label  string
	Result *models.QueryResult

	// Slider bounds, only meaningful when HasSlider is set.
	HasSlider bool
	SliderMin int
	SliderMax int
	Rows      int
	Preview   *models.QueryResult

	HasRecipe bool
	Chart     *plot.Chart
	// Warning replaces the chart when it could not be built.
	Warning string
}

// Empty reports whether the query found nothing. Empty selections carry no
// preview, slider or chart.
func (s *Selection) Empty() bool {
	return s.Result.Empty()
}

func (d *Dashboard) execute(ctx context.Context, label string) (*models.QueryResult, error) {
	statement, err := d.catalog.GetStatement(label)
	if err != nil {
		return nil, err
	}
	return d.executor.Execute(ctx, statement)
}

// Select runs the query behind label and prepares at most rows preview rows.
// AutoRows selects the default preview size; any other value is clamped to
// the result, so 0 or less shows one row. An empty label selects the first
// query.
func (d *Dashboard) Select(ctx context.Context, label string, rows int) (*Selection, error) {
	if label == "" {
		label = d.catalog.First()
	}
	sel := &Selection{ID: uuid.NewV4(), Label: label}
	logger := log.With().Str("cycle", sel.ID.String()).Str("label", label).Logger()

	res, err := d.execute(ctx, label)
	if err != nil {
		logger.Error().Err(err).Msg("query selection failed")
		return nil, err
	}
	sel.Result = res
	if res.Empty() {
		logger.Info().Msg("query returned no rows")
		return sel, nil
	}

	var value int
	sel.SliderMin, sel.SliderMax, value, sel.HasSlider = present.SliderBounds(res.Len())
	if rows == AutoRows {
		rows = value
	}
	sel.Rows = present.ClampRows(rows, res.Len())
	sel.Preview = present.Render(res, sel.Rows)

	recipe, ok := d.registry.Lookup(label)
	sel.HasRecipe = ok
	if ok {
		chart, err := plot.Apply(recipe, res)
		if err != nil {
			sel.Warning = WarningText(err)
			logger.Warn().Err(err).Msg("chart skipped")
		} else {
			sel.Chart = chart
		}
	}

	logger.Info().Int("rows", res.Len()).Int("preview", sel.Rows).Bool("chart", sel.Chart != nil).Msg("query selected")
	return sel, nil
}

// Export returns the whole result of label as CSV.
func (d *Dashboard) Export(ctx context.Context, label string) ([]byte, error) {
	res, err := d.execute(ctx, label)
	if err != nil {
		return nil, err
	}
	return present.ExportCSV(res)
}

// Chart builds the chart of label without a preview.
func (d *Dashboard) Chart(ctx context.Context, label string) (*plot.Chart, error) {
	res, err := d.execute(ctx, label)
	if err != nil {
		return nil, err
	}
	recipe, ok := d.registry.Lookup(label)
	if !ok || res.Empty() {
		return nil, ErrNoChart
	}
	return plot.Apply(recipe, res)
}

// WarningText is the message shown in place of a chart that failed with err.
func WarningText(err error) string {
	var missing *plot.MissingColumnError
	if errors.As(err, &missing) {
		return missing.Error()
	}
	return "Não foi possível gerar o gráfico: " + err.Error()
}
