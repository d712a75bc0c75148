// Package tenant carries the CRM organisation a request is scoped to.
package tenant

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const tenantKey contextKey = "tenantID"

// WithTenantID scopes ctx to a single tenant
func WithTenantID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, tenantKey, id)
}

// FromContext returns the tenant ctx is scoped to. The second result is
// false for unscoped contexts, which see every tenant.
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(tenantKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// String returns the tenant id of ctx, or "" when unscoped
func String(ctx context.Context) string {
	if id, ok := FromContext(ctx); ok {
		return id.String()
	}
	return ""
}
