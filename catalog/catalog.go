package catalog

import (
	"fmt"

	"github.com/pivolan/ocorrencias_analyzer/domain/models"
)

// UnknownLabelError is returned when a label is not part of the catalog.
type UnknownLabelError struct {
	Label string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("unknown query label %q", e.Label)
}

// UnknownNumberError is returned by ByNumber for numbers outside 1..Len.
type UnknownNumberError struct {
	Number int
}

func (e *UnknownNumberError) Error() string {
	return fmt.Sprintf("unknown query number %d", e.Number)
}

// Catalog is an ordered, read-only set of query definitions.
type Catalog struct {
	definitions []models.QueryDefinition
	byLabel     map[string]int
}

// New builds a catalog, numbering the definitions from 1 in the given order.
// Duplicate labels are rejected.
func New(definitions ...models.QueryDefinition) (*Catalog, error) {
	c := &Catalog{
		definitions: make([]models.QueryDefinition, 0, len(definitions)),
		byLabel:     make(map[string]int, len(definitions)),
	}
	for i, d := range definitions {
		if d.Label == "" || d.Statement == "" {
			return nil, fmt.Errorf("query definition %d: empty label or statement", i+1)
		}
		if _, ok := c.byLabel[d.Label]; ok {
			return nil, fmt.Errorf("duplicate query label %q", d.Label)
		}
		d.Number = i + 1
		c.byLabel[d.Label] = i
		c.definitions = append(c.definitions, d)
	}
	return c, nil
}

// Default returns the catalog of the ten aviation occurrence queries.
func Default() *Catalog {
	c, err := New(queries...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) GetStatement(label string) (string, error) {
	i, ok := c.byLabel[label]
	if !ok {
		return "", &UnknownLabelError{Label: label}
	}
	return c.definitions[i].Statement, nil
}

func (c *Catalog) Has(label string) bool {
	_, ok := c.byLabel[label]
	return ok
}

func (c *Catalog) ByNumber(n int) (models.QueryDefinition, error) {
	if n < 1 || n > len(c.definitions) {
		return models.QueryDefinition{}, &UnknownNumberError{Number: n}
	}
	return c.definitions[n-1], nil
}

func (c *Catalog) Labels() []string {
	labels := make([]string, len(c.definitions))
	for i, d := range c.definitions {
		labels[i] = d.Label
	}
	return labels
}

func (c *Catalog) Definitions() []models.QueryDefinition {
	out := make([]models.QueryDefinition, len(c.definitions))
	copy(out, c.definitions)
	return out
}

// First is the label selected when nothing was chosen yet.
func (c *Catalog) First() string {
	if len(c.definitions) == 0 {
		return ""
	}
	return c.definitions[0].Label
}

func (c *Catalog) Len() int {
	return len(c.definitions)
}
