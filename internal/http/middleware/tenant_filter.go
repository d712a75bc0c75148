package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"go.uber.org/zap"
)

// TenantHeader carries the CRM organisation a request is scoped to
const TenantHeader = "X-Tenant-ID"

// TenantFilter scopes the request context to the tenant named in the
// X-Tenant-ID header. Requests without the header run unscoped.
type TenantFilter struct {
	logger *zap.Logger
}

// NewTenantFilter creates a new tenant filter middleware
func NewTenantFilter(logger *zap.Logger) *TenantFilter {
	return &TenantFilter{logger: logger}
}

// Filter is the middleware handler that sets the tenant in context
func (m *TenantFilter) Filter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(TenantHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			m.logger.Warn("rejected malformed tenant header",
				zap.String("path", r.URL.Path),
				zap.String("tenant_header", raw),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(domain.APIError{
				Type:   domain.ErrorTypeBadRequest,
				Title:  http.StatusText(http.StatusBadRequest),
				Status: http.StatusBadRequest,
				Detail: "Invalid X-Tenant-ID header: must be a valid UUID",
			})
			return
		}

		ctx := tenant.WithTenantID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
