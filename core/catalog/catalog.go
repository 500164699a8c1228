// Package catalog generates the named metric catalog: the
// (provider x granularity x formula shape x optional service filter)
// cross product, plus the tag-scoped yearly-budget variants.
//
// One generation table drives everything. Formula text is never
// duplicated per service or per provider; only the filter, the cost
// column and the budget basis vary between entries.
package catalog

import (
	"sort"
	"sync"

	"costwatch/core/types"
	"costwatch/internal/errors"
	"costwatch/providers"
)

type catalogKey struct {
	provider types.Provider
	name     string
}

// Catalog is the static metric definition set. Built once at startup,
// safe for concurrent reads by construction.
type Catalog struct {
	defs map[catalogKey]types.MetricDefinition
}

// Build generates the catalog from registered provider schemas
func Build(reg *providers.Registry) (*Catalog, error) {
	c := &Catalog{
		defs: make(map[catalogKey]types.MetricDefinition),
	}

	for _, p := range reg.Providers() {
		schema, _ := reg.Get(p)
		if err := c.generate(schema); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// generate emits all definitions for one provider schema
func (c *Catalog) generate(schema providers.Schema) error {
	for _, g := range granularities {
		for _, shape := range shapes {
			// tenant-wide, row monthly budget
			if err := c.add(types.MetricDefinition{
				Name:        Name(shape, g, "", false),
				Provider:    schema.Provider,
				Granularity: g,
				Shape:       shape,
				CostColumn:  schema.CostColumn,
				BudgetBasis: types.BudgetBasisMonthlyRow,
			}); err != nil {
				return err
			}

			// tag-scoped, tenant yearly budget
			if err := c.add(types.MetricDefinition{
				Name:        Name(shape, g, "", true),
				Provider:    schema.Provider,
				Granularity: g,
				Shape:       shape,
				CostColumn:  schema.CostColumn,
				BudgetBasis: types.BudgetBasisYearlyTags,
			}); err != nil {
				return err
			}

			// service-scoped, row monthly budget
			for _, sf := range schema.ServiceFilters {
				if err := c.add(types.MetricDefinition{
					Name:          Name(shape, g, sf.Prefix, false),
					Provider:      schema.Provider,
					Granularity:   g,
					Shape:         shape,
					CostColumn:    schema.CostColumn,
					ServiceFilter: sf.ServiceCode,
					BudgetBasis:   types.BudgetBasisMonthlyRow,
				}); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *Catalog) add(def types.MetricDefinition) error {
	key := catalogKey{provider: def.Provider, name: def.Name}
	if _, exists := c.defs[key]; exists {
		return errors.Newf(errors.TypeConfig, "duplicate metric name for %s: %s", def.Provider, def.Name)
	}
	c.defs[key] = def
	return nil
}

// Lookup returns the definition for a provider and metric name
func (c *Catalog) Lookup(p types.Provider, name string) (types.MetricDefinition, bool) {
	def, ok := c.defs[catalogKey{provider: p, name: name}]
	return def, ok
}

// Names returns all metric names for a provider, sorted
func (c *Catalog) Names(p types.Provider) []string {
	names := make([]string, 0)
	for key := range c.defs {
		if key.provider == p {
			names = append(names, key.name)
		}
	}
	sort.Strings(names)
	return names
}

// All returns every definition, ordered by provider then name
func (c *Catalog) All() []types.MetricDefinition {
	defs := make([]types.MetricDefinition, 0, len(c.defs))
	for _, def := range c.defs {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Provider != defs[j].Provider {
			return defs[i].Provider < defs[j].Provider
		}
		return defs[i].Name < defs[j].Name
	})
	return defs
}

// Len returns the number of definitions
func (c *Catalog) Len() int {
	return len(c.defs)
}

// Global default catalog, built lazily over the default provider
// registry.
var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// GetDefault returns the catalog over the built-in provider schemas
func GetDefault() *Catalog {
	defaultOnce.Do(func() {
		c, err := Build(providers.Default())
		if err != nil {
			// built-in schemas generate a valid catalog; a failure
			// here is a programming error
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
