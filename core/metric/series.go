package metric

import (
	"context"
	"time"

	"costwatch/core/period"
	"costwatch/core/types"
	"costwatch/db"
	"costwatch/internal/errors"
)

// SeriesRequest identifies one time-series evaluation. The named
// metric contributes its cost column and service filter; series are
// always bucketed cost sums.
type SeriesRequest struct {
	TenantID string
	Metric   string

	// Bucket is the series bucket width (day, week, month, quarter)
	Bucket types.BucketGranularity

	// From and To bound the series, To exclusive. Zero values default
	// to the start of the current year and "now" respectively.
	From time.Time
	To   time.Time

	TagID *int64
	Now   time.Time
}

// Series computes a bucketed cost series for a tenant
func (e *Evaluator) Series(ctx context.Context, req SeriesRequest) ([]db.SeriesPoint, error) {
	if req.TenantID == "" {
		return nil, errors.Input("tenant_id is required")
	}
	if req.Metric == "" {
		return nil, errors.Input("metric is required")
	}
	if !req.Bucket.Valid() {
		return nil, errors.Newf(errors.TypeInput, "unsupported bucket granularity: %s", req.Bucket)
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	from := req.From
	if from.IsZero() {
		from = period.Truncate(now, types.GranularityYear)
	}
	to := req.To
	if to.IsZero() {
		to = now
	}
	if !from.Before(to) {
		return nil, errors.Input("series range is empty: from must precede to")
	}

	tenant, err := e.tenants.Resolve(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	def, ok := e.catalog.Lookup(tenant.Provider, req.Metric)
	if !ok {
		return nil, errors.UnknownMetric(req.Metric)
	}

	resourceIDs, tagScoped, err := e.tagFilter(ctx, EvalRequest{
		TenantID: req.TenantID,
		Metric:   req.Metric,
		TagID:    req.TagID,
	})
	if err != nil {
		return nil, err
	}
	if tagScoped && len(resourceIDs) == 0 {
		return []db.SeriesPoint{}, nil
	}

	points, err := e.rows.Series(ctx, db.SeriesQuery{
		Namespace:   tenant.SchemaNamespace,
		CostColumn:  def.CostColumn,
		Bucket:      req.Bucket,
		From:        from,
		To:          to,
		ServiceCode: def.ServiceFilter,
		ResourceIDs: resourceIDs,
	})
	if err != nil {
		return nil, asRowSourceError(err)
	}
	return points, nil
}
