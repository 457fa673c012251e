package order

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/georgemunganga/foodcourt-backend/internal/events"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/catalog"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/vendor"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type noopCarts struct{}

func (noopCarts) ClearCart(context.Context, string) error { return nil }

type httpFixture struct {
	router   *chi.Mux
	issuer   *auth.Issuer
	vendorX  uuid.UUID
	itemID   uuid.UUID
	customer string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	ctx := context.Background()
	issuer := auth.NewIssuer("handler-test", time.Hour)

	vendors := vendor.NewMemoryRepository()
	x := &vendor.Vendor{ID: uuid.New(), Name: "VendorX", Email: "x@example.com"}
	require.NoError(t, vendors.CreateVendor(ctx, x))

	items := catalog.NewMemoryRepository()
	item := &catalog.Item{ID: uuid.New(), Name: "Idli", Price: 50, VendorID: x.ID, VendorName: x.Name, Available: true}
	require.NoError(t, items.Create(ctx, item))

	svc := NewService(NewMemoryRepository(), items,
		vendor.NewService(vendors, issuer, zap.NewNop()), noopCarts{},
		events.NewLogPublisher(zap.NewNop(), "test"), zap.NewNop(), 2)

	r := chi.NewRouter()
	r.Use(auth.Authenticate(issuer))
	NewHandler(svc).RegisterRoutes(r)
	return &httpFixture{router: r, issuer: issuer, vendorX: x.ID, itemID: item.ID, customer: "u1"}
}

func (f *httpFixture) do(t *testing.T, method, path string, p *auth.Principal, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if p != nil {
		token, err := f.issuer.Issue(*p)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_OrderFlow(t *testing.T) {
	f := newHTTPFixture(t)
	customer := &auth.Principal{Subject: f.customer, Role: auth.RoleCustomer}
	vendorX := &auth.Principal{Subject: "owner-x", Role: auth.RoleVendor, VendorID: f.vendorX}

	rec := f.do(t, http.MethodPost, "/api/v1/orders", customer, PlaceOrderRequest{
		Items: []CartLine{{ItemID: f.itemID.String(), Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var placed PlaceOrderResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&placed))
	assert.Equal(t, 100.0, placed.Amount)
	assert.Equal(t, 102.0, placed.Payable)

	rec = f.do(t, http.MethodGet, "/api/v1/vendor/orders", vendorX, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []VendorOrderView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 1)
	assert.Equal(t, placed.OrderID, views[0].OrderID)

	statusPath := "/api/v1/vendor/orders/" + placed.OrderID.String() + "/status"
	rec = f.do(t, http.MethodPatch, statusPath, vendorX, UpdateStatusRequest{Status: "Delivered"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var res TransitionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, StatusDelivered, res.OverallStatus)

	rec = f.do(t, http.MethodPatch, statusPath, vendorX, UpdateStatusRequest{Status: "Out for delivery"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "ILLEGAL_TRANSITION")

	other := &auth.Principal{Subject: "owner-y", Role: auth.RoleVendor, VendorID: uuid.New()}
	rec = f.do(t, http.MethodPatch, statusPath, other, UpdateStatusRequest{Status: "Delivered"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "VENDOR_NOT_FOUND")

	rec = f.do(t, http.MethodGet, "/api/v1/orders/mine", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vendor_groups"`)
}

func TestHandler_Guards(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/orders", nil, PlaceOrderRequest{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	customer := &auth.Principal{Subject: f.customer, Role: auth.RoleCustomer}
	rec = f.do(t, http.MethodGet, "/api/v1/vendor/orders", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/admin/orders/repair", customer, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &auth.Principal{Subject: "root", Role: auth.RoleAdmin}
	rec = f.do(t, http.MethodPost, "/api/v1/admin/orders/repair", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"repaired":0}`, rec.Body.String())
}
