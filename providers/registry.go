// Package providers describes how each cloud provider's billing data
// maps onto the analytics core: which raw column is "the cost to use",
// where the charge period and per-row budget live, and which service
// codes get service-scoped metric variants.
//
// Schemas are declarative leaves. They never compute anything.
package providers

import (
	"sort"
	"sync"

	"costwatch/core/types"
	"costwatch/internal/errors"
)

// ServiceFilter pairs a metric name prefix with the provider's service
// code for it
type ServiceFilter struct {
	// Prefix is the outbound metric name prefix (e.g. "ecc", "storage")
	Prefix string `json:"prefix"`

	// ServiceCode is the provider's service_code value
	ServiceCode string `json:"service_code"`

	// Label is a human-readable description
	Label string `json:"label"`
}

// Schema is the cost schema for one provider
type Schema struct {
	// Provider identifies the cloud
	Provider types.Provider `json:"provider"`

	// DisplayName is a human-readable name
	DisplayName string `json:"display_name"`

	// CostColumn is the raw column metrics sum by default
	CostColumn types.CostColumn `json:"cost_column"`

	// ChargePeriodColumn holds the charge-period timestamp
	ChargePeriodColumn string `json:"charge_period_column"`

	// BudgetColumn holds the per-row monthly budget
	BudgetColumn string `json:"budget_column"`

	// ServiceFilters lists the service-scoped metric variants
	ServiceFilters []ServiceFilter `json:"service_filters"`
}

// Registry manages cost schema registration. Built once at startup,
// read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	schemas map[types.Provider]Schema
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[types.Provider]Schema),
	}
}

// Register adds a schema to the registry
func (r *Registry) Register(s Schema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Provider == "" {
		return errors.Config("schema has no provider")
	}
	if !types.KnownCostColumns[s.CostColumn] {
		return errors.Newf(errors.TypeConfig, "schema %s references unknown cost column %q", s.Provider, s.CostColumn)
	}
	if _, exists := r.schemas[s.Provider]; exists {
		return errors.Newf(errors.TypeConfig, "schema already registered: %s", s.Provider)
	}

	r.schemas[s.Provider] = s
	return nil
}

// Get returns a schema by provider
func (r *Registry) Get(p types.Provider) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schemas[p]
	return s, ok
}

// Providers returns registered provider IDs in stable order
func (r *Registry) Providers() []types.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]types.Provider, 0, len(r.schemas))
	for p := range r.schemas {
		providers = append(providers, p)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

// Default returns a registry with all built-in provider schemas
func Default() *Registry {
	r := NewRegistry()
	for _, s := range []Schema{awsSchema(), azureSchema(), gcpSchema()} {
		if err := r.Register(s); err != nil {
			// built-in schemas are static; a failure here is a
			// programming error
			panic(err)
		}
	}
	return r
}
