package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_AdminVendors(t *testing.T) {
	f := newFixture(t)
	issuer := auth.NewIssuer("handler-test", time.Hour)
	r := chi.NewRouter()
	r.Use(auth.Authenticate(issuer))
	NewHandler(f.svc).RegisterRoutes(r)

	do := func(method, path string, p *auth.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if p != nil {
			token, err := issuer.Issue(*p)
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}
	admin := &auth.Principal{Subject: "root", Role: auth.RoleAdmin}
	owner := &auth.Principal{Subject: "owner-x", Role: auth.RoleVendor, VendorID: f.x.ID}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/api/v1/admin/vendors", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/api/v1/admin/vendors", owner).Code)

	rec := do(http.MethodGet, "/api/v1/admin/vendors", admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	require.Len(t, stats, 3)
	assert.Contains(t, stats[0], "item_count")
	assert.Contains(t, stats[0], "revenue")
	assert.NotContains(t, stats[0], "password_hash")

	assert.Equal(t, http.StatusForbidden, do(http.MethodDelete, "/api/v1/admin/vendors/"+f.x.ID.String(), owner).Code)
	rec = do(http.MethodDelete, "/api/v1/admin/vendors/"+f.x.ID.String(), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp DeactivateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Vendor.Active)
	assert.Equal(t, 2, resp.PausedItems)

	assert.Equal(t, http.StatusNotFound, do(http.MethodDelete, "/api/v1/admin/vendors/not-a-uuid", admin).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/api/v1/admin/vendors/"+f.x.ID.String()+"/activate", admin).Code)
}
