package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/straye-as/crm-analytics/internal/domain"
	"github.com/straye-as/crm-analytics/internal/http/middleware"
	"github.com/straye-as/crm-analytics/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTenantFilter(t *testing.T) {
	tenantID := uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantTenant string
		wantCalled bool
	}{
		{"missing header runs unscoped", "", http.StatusOK, "", true},
		{"valid header scopes request", tenantID.String(), http.StatusOK, tenantID.String(), true},
		{"malformed header rejected", "acme", http.StatusBadRequest, "", false},
		{"nil uuid rejected", uuid.Nil.String(), http.StatusBadRequest, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTenant string
			called := false
			handler := middleware.NewTenantFilter(zap.NewNop()).Filter(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotTenant = tenant.String(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/pipeline", nil)
			if tt.header != "" {
				req.Header.Set(middleware.TenantHeader, tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCalled, called)
			assert.Equal(t, tt.wantTenant, gotTenant)

			if tt.wantStatus == http.StatusBadRequest {
				var apiErr domain.APIError
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
				assert.Equal(t, domain.ErrorTypeBadRequest, apiErr.Type)
				assert.Contains(t, apiErr.Detail, "X-Tenant-ID")
			}
		})
	}
}
