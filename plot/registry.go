package plot

import (
	"fmt"
	"strings"

	go_utils "github.com/pivolan/go_utils"
	"github.com/pivolan/ocorrencias_analyzer/catalog"
)

// Registry maps catalog labels to chart recipes. Labels without a recipe get
// a table but no chart.
type Registry struct {
	recipes map[string]Recipe
	order   []string
}

func NewRegistry(recipes ...Recipe) (*Registry, error) {
	r := &Registry{recipes: make(map[string]Recipe, len(recipes))}
	for _, rc := range recipes {
		if rc.Label == "" {
			return nil, fmt.Errorf("recipe without label")
		}
		if err := rc.validate(); err != nil {
			return nil, err
		}
		if _, ok := r.recipes[rc.Label]; ok {
			return nil, fmt.Errorf("duplicate recipe for %q", rc.Label)
		}
		r.recipes[rc.Label] = rc
		r.order = append(r.order, rc.Label)
	}
	return r, nil
}

// DefaultRegistry returns the recipes of the ten catalog queries.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(defaultRecipes...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Registry) Lookup(label string) (Recipe, bool) {
	rc, ok := r.recipes[label]
	return rc, ok
}

// Labels returns the labels that have a recipe, in registration order.
func (r *Registry) Labels() []string {
	return append([]string(nil), r.order...)
}

// Validate checks that every recipe belongs to one of labels.
func (r *Registry) Validate(labels []string) error {
	var orphans []string
	for _, l := range r.order {
		if !go_utils.InArray(l, labels) {
			orphans = append(orphans, l)
		}
	}
	if len(orphans) > 0 {
		return fmt.Errorf("recipes without query: %s", strings.Join(orphans, "; "))
	}
	return nil
}

var defaultRecipes = []Recipe{
	{
		Label:          catalog.LabelDescricaoData2024,
		Kind:           KindFrequency,
		Column:         "Data_da_Ocorrencia",
		ParseDate:      true,
		TopN:           10,
		SortByCategory: true,
		Title:          "Top 10 Datas com Mais Ocorrências",
		XAxis:          "Data",
		YAxis:          "Quantidade",
		Color:          "blue",
	},
	{
		Label:  catalog.LabelVooPrivado,
		Kind:   KindFrequency,
		Column: "Fase_da_Operacao",
		Title:  "Ocorrências por Fase da Operação",
		YAxis:  "Quantidade",
		Color:  "green",
	},
	{
		Label:  catalog.LabelIncidentesGraves,
		Kind:   KindFrequency,
		Column: "Fase_da_Operacao",
		Title:  "Distribuição das Fases da Operação para Incidentes Graves",
		XAxis:  "Fase da Operação",
		YAxis:  "Quantidade",
		Color:  "orange",
	},
	{
		Label:       catalog.LabelOrigem2024,
		Kind:        KindStacked,
		Column:      "Aerodromo_de_Origem",
		StackColumn: "Classificacao_da_Ocorrencia",
		Title:       "Classificação das Ocorrências por Aeródromo de Origem (2024)",
		XAxis:       "Aeródromo de Origem",
		YAxis:       "Quantidade",
	},
	{
		Label:  catalog.LabelConfins,
		Kind:   KindFrequency,
		Column: "Tipo_descricao",
		Title:  "Tipos de Ocorrência no Aeródromo de Confins (SBCF)",
		YAxis:  "Quantidade",
		Color:  "green",
	},
	{
		Label:        catalog.LabelSemPassageirosIlesos,
		Kind:         KindFrequency,
		Column:       "Aerodromo_de_Origem",
		TopN:         10,
		Title:        "Top 10 Aeródromos de Origem com Mais Ocorrências (Sem Passageiros Ilesos)",
		XAxis:        "Aeródromo de Origem",
		YAxis:        "Quantidade",
		Color:        "purple",
		RotateLabels: true,
	},
	{
		Label:  catalog.LabelDecolagem,
		Kind:   KindFrequency,
		Column: "Origem_Destino",
		Derive: &Derive{
			Name:      "Origem_Destino",
			Left:      "Aerodromo_de_Origem",
			Right:     "Aerodromo_de_Destino",
			Separator: " -> ",
		},
		TopN:         10,
		Title:        "Top 10 Combinações de Aeródromos de Origem e Destino com Mais Ocorrências na Fase de Decolagem",
		XAxis:        "Combinação Origem -> Destino",
		YAxis:        "Quantidade",
		Color:        "teal",
		RotateLabels: true,
	},
	{
		Label:        catalog.LabelAcidentesAerodromoPublico,
		Kind:         KindGrouped,
		Column:       "ICAO",
		ValueColumns: []string{"qtd_ocorrencias"},
		TopN:         10,
		Title:        "Top 10 Aeródromos Públicos com Mais Acidentes",
		XAxis:        "Código ICAO",
		YAxis:        "Quantidade de Acidentes",
		Color:        "purple",
		RotateLabels: true,
	},
	{
		Label:        catalog.LabelAcidentesIncidentesRegiao,
		Kind:         KindMultiSeries,
		Column:       "Regiao",
		ValueColumns: []string{"qtd_incidentes_graves", "qtd_acidentes"},
		Title:        "Incidentes Graves e Acidentes por Região",
		YAxis:        "Quantidade",
	},
	{
		Label:        catalog.LabelOcorrenciasPorFabricante,
		Kind:         KindGrouped,
		Column:       "Nome_do_Fabricante",
		ValueColumns: []string{"qtd_ocorrencias"},
		TopN:         10,
		Title:        "Top 10 Fabricantes com Mais Ocorrências",
		XAxis:        "Nome do Fabricante",
		YAxis:        "Quantidade de Ocorrências",
		Color:        "orange",
		RotateLabels: true,
	},
}
