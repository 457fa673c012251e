package order

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes order HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(auth.Require(auth.RoleCustomer)).Post("/", h.placeOrder)
		r.With(auth.Require(auth.RoleCustomer)).Get("/mine", h.listMine)
		r.With(auth.Require(auth.RoleCustomer, auth.RoleAdmin)).Get("/{id}", h.getOrder)
		r.With(auth.Require(auth.RoleCustomer, auth.RoleAdmin)).Post("/{id}/payment", h.confirmPayment)
	})

	r.Route("/api/v1/vendor/orders", func(r chi.Router) {
		r.Use(auth.Require(auth.RoleVendor))
		r.Get("/", h.listVendorOrders)                // GET   /api/v1/vendor/orders
		r.Patch("/{id}/status", h.updateVendorStatus) // PATCH /api/v1/vendor/orders/{id}/status
	})

	r.Route("/api/v1/admin/orders", func(r chi.Router) {
		r.Use(auth.Require(auth.RoleAdmin))
		r.Get("/", h.listAll)
		r.Post("/repair", h.repairVendorLinks)
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	resp, err := h.service.PlaceOrder(r.Context(), actor.Subject, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, resp)
}

func (h *Handler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrOrderNotFound)
		return
	}
	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	o, err := h.service.ConfirmPayment(r.Context(), actor, id, req.Success)
	if err != nil {
		respondError(w, err)
		return
	}
	if o == nil {
		respond(w, http.StatusOK, map[string]interface{}{"order_id": id, "removed": true})
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrOrderNotFound)
		return
	}
	actor, _ := auth.FromContext(r.Context())
	view, err := h.service.GetOrder(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, view)
}

func (h *Handler) listMine(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	views, err := h.service.ListCustomerOrders(r.Context(), actor.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nonNil(views))
}

func (h *Handler) listVendorOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	views, err := h.service.ListVendorOrders(r.Context(), actor.VendorID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, views)
}

func (h *Handler) updateVendorStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrOrderNotFound)
		return
	}
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	res, err := h.service.UpdateVendorStatus(r.Context(), id, actor.VendorID, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListAllOrders(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, nonNil(views))
}

func (h *Handler) repairVendorLinks(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.RepairVendorLinks(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"repaired": n})
}

func nonNil(v []CustomerOrderView) []CustomerOrderView {
	if v == nil {
		return []CustomerOrderView{}
	}
	return v
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
