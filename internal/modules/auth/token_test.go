package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_RoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	vendorID := uuid.New()

	token, err := issuer.Issue(Principal{Subject: "owner-1", Role: RoleVendor, VendorID: vendorID})
	require.NoError(t, err)

	p, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, Principal{Subject: "owner-1", Role: RoleVendor, VendorID: vendorID}, p)
}

func TestIssuer_Rejects(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	t.Run("wrong key", func(t *testing.T) {
		token, err := NewIssuer("other", time.Hour).Issue(Principal{Subject: "u", Role: RoleCustomer})
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		old := NewIssuer("secret", time.Minute)
		old.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := old.Issue(Principal{Subject: "u", Role: RoleCustomer})
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("vendor without id", func(t *testing.T) {
		token, err := issuer.Issue(Principal{Subject: "u", Role: RoleVendor})
		require.NoError(t, err)
		_, err = issuer.Parse(token)
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Parse("not-a-token")
		assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	})
}

func TestMiddleware(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)
	handler := Authenticate(issuer)(Require(RoleCustomer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := FromContext(r.Context())
		w.Write([]byte(p.Subject))
	})))

	customer, err := issuer.Issue(Principal{Subject: "user-1", Role: RoleCustomer})
	require.NoError(t, err)
	admin, err := issuer.Issue(Principal{Subject: "root", Role: RoleAdmin})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"customer", "Bearer " + customer, http.StatusOK},
		{"anonymous", "", http.StatusUnauthorized},
		{"wrong role", "Bearer " + admin, http.StatusForbidden},
		{"bad scheme", "Basic abc", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
