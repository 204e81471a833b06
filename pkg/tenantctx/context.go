package tenantctx

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type keyType string

const (
	TenantIDKey keyType = "tenant_id"
)

// ErrMissingTenant is returned by Require when the context carries no tenant.
var ErrMissingTenant = errors.New("missing_tenant")

// WithTenantID annotates the context with the acting tenant.
func WithTenantID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, TenantIDKey, id)
}

func TenantID(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(TenantIDKey).(snowflake.ID)
	return id, ok
}

// Require returns the tenant id or ErrMissingTenant. Every service entry
// point resolves the tenant through this helper before touching storage.
func Require(ctx context.Context) (snowflake.ID, error) {
	id, ok := TenantID(ctx)
	if !ok || id == 0 {
		return 0, ErrMissingTenant
	}
	return id, nil
}
