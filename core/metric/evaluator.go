// Package metric is the evaluation facade: it resolves a tenant, picks
// the provider cost schema, looks up the named definition, computes the
// period window and delegates to the formula engine.
//
// Evaluation is a pure function of (rows, window, definition). The
// facade holds only immutable configuration and stateless resolvers,
// so concurrent calls for any mix of tenants are independent.
package metric

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"costwatch/core/catalog"
	"costwatch/core/formula"
	"costwatch/core/period"
	"costwatch/core/types"
	"costwatch/db"
	"costwatch/internal/errors"
	"costwatch/providers"
)

// Evaluator wires the catalog, schemas and storage boundary together
type Evaluator struct {
	catalog *catalog.Catalog
	schemas *providers.Registry
	tenants db.TenantResolver
	tags    db.TagResolver
	rows    db.RowSource
}

// NewEvaluator creates an evaluator. tags may be nil when tag-scoped
// requests are not served.
func NewEvaluator(
	cat *catalog.Catalog,
	schemas *providers.Registry,
	tenants db.TenantResolver,
	tags db.TagResolver,
	rows db.RowSource,
) *Evaluator {
	return &Evaluator{
		catalog: cat,
		schemas: schemas,
		tenants: tenants,
		tags:    tags,
		rows:    rows,
	}
}

// EvalRequest identifies one metric evaluation
type EvalRequest struct {
	// TenantID selects the tenant
	TenantID string

	// Metric is the catalog name
	Metric string

	// TagID restricts the row set to one tag's resources and switches
	// the budget source to the tenant's yearly tags budget
	TagID *int64

	// Now anchors the period window; zero means the current time
	Now time.Time
}

// EvalResult carries the value plus the context it was computed in
type EvalResult struct {
	// Value is the metric value; null means "no signal" (zero budget,
	// zero elapsed days), never an error
	Value decimal.NullDecimal

	// Definition is the catalog entry that was evaluated
	Definition types.MetricDefinition

	// Window is the resolved period window
	Window period.Window

	// Tenant is the resolved tenant context
	Tenant types.TenantContext
}

// Evaluate computes one named metric for a tenant
func (e *Evaluator) Evaluate(ctx context.Context, req EvalRequest) (EvalResult, error) {
	if req.TenantID == "" {
		return EvalResult{}, errors.Input("tenant_id is required")
	}
	if req.Metric == "" {
		return EvalResult{}, errors.Input("metric is required")
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	tenant, err := e.tenants.Resolve(ctx, req.TenantID)
	if err != nil {
		return EvalResult{}, err
	}

	if _, ok := e.schemas.Get(tenant.Provider); !ok {
		return EvalResult{}, errors.Newf(errors.TypeInternal, "tenant %s resolves to unregistered provider %s", req.TenantID, tenant.Provider)
	}

	def, ok := e.catalog.Lookup(tenant.Provider, req.Metric)
	if !ok {
		return EvalResult{}, errors.UnknownMetric(req.Metric)
	}

	window, err := period.Compute(now, def.Granularity)
	if err != nil {
		return EvalResult{}, err
	}

	resourceIDs, tagScoped, err := e.tagFilter(ctx, req)
	if err != nil {
		return EvalResult{}, err
	}

	// The tag budget applies only to explicitly tag-scoped requests;
	// everything else paces against MAX(monthly_budget) from the rows.
	basis := def.BudgetBasis
	if tagScoped {
		basis = types.BudgetBasisYearlyTags
	}

	var agg formula.Aggregates
	if tagScoped && len(resourceIDs) == 0 {
		// a tag with no resources matches no rows; skip the fetch and
		// evaluate against empty aggregates
	} else {
		agg, err = e.rows.Aggregate(ctx, db.AggregateQuery{
			Namespace:   tenant.SchemaNamespace,
			CostColumn:  def.CostColumn,
			Granularity: def.Granularity,
			WindowStart: window.Start,
			Now:         now,
			ServiceCode: def.ServiceFilter,
			ResourceIDs: resourceIDs,
		})
		if err != nil {
			return EvalResult{}, asRowSourceError(err)
		}
	}

	value, err := formula.Evaluate(def.Shape, formula.Inputs{
		Window:           window,
		Aggregates:       agg,
		BudgetBasis:      basis,
		TagsYearlyBudget: tenant.TagsYearlyBudget,
	})
	if err != nil {
		return EvalResult{}, err
	}

	return EvalResult{
		Value:      value,
		Definition: def,
		Window:     window,
		Tenant:     tenant,
	}, nil
}

// tagFilter resolves the optional tag restriction
func (e *Evaluator) tagFilter(ctx context.Context, req EvalRequest) ([]string, bool, error) {
	if req.TagID == nil {
		return nil, false, nil
	}
	if e.tags == nil {
		return nil, false, errors.Input("tag-scoped requests are not supported by this deployment")
	}
	ids, err := e.tags.ResourceIDs(ctx, req.TenantID, *req.TagID)
	if err != nil {
		return nil, false, asRowSourceError(err)
	}
	return ids, true, nil
}

// asRowSourceError keeps the taxonomy intact for foreign errors from
// store implementations
func asRowSourceError(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.RowSource("row fetch failed", err)
}
