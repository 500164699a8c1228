package memory

import (
	"context"
	"sync"

	"costwatch/core/types"
	"costwatch/internal/errors"
)

type tagKey struct {
	tenantID string
	tagID    int64
}

// TenantDirectory is a static tenant and tag resolver
type TenantDirectory struct {
	mu      sync.RWMutex
	tenants map[string]types.TenantContext
	tags    map[tagKey][]string
}

// NewTenantDirectory creates an empty directory
func NewTenantDirectory() *TenantDirectory {
	return &TenantDirectory{
		tenants: make(map[string]types.TenantContext),
		tags:    make(map[tagKey][]string),
	}
}

// AddTenant registers a tenant context
func (d *TenantDirectory) AddTenant(tc types.TenantContext) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tenants[tc.TenantID] = tc
}

// AddTag associates a tag with resource IDs for a tenant
func (d *TenantDirectory) AddTag(tenantID string, tagID int64, resourceIDs []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tags[tagKey{tenantID: tenantID, tagID: tagID}] = resourceIDs
}

// Resolve implements db.TenantResolver
func (d *TenantDirectory) Resolve(_ context.Context, tenantID string) (types.TenantContext, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	tc, ok := d.tenants[tenantID]
	if !ok {
		return types.TenantContext{}, errors.MissingTenant(tenantID)
	}
	return tc, nil
}

// ResourceIDs implements db.TagResolver. An unknown tag resolves to an
// empty resource set, which evaluates to zero sums downstream.
func (d *TenantDirectory) ResourceIDs(_ context.Context, tenantID string, tagID int64) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.tags[tagKey{tenantID: tenantID, tagID: tagID}], nil
}
