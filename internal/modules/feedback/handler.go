package feedback

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes feedback and rating endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/feedback", func(r chi.Router) {
		r.Get("/item/{id}", h.listByItem)     // GET /api/v1/feedback/item/{id}
		r.Get("/vendor/{id}", h.listByVendor) // GET /api/v1/feedback/vendor/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(auth.RoleCustomer))
			r.Post("/", h.submit)        // POST /api/v1/feedback
			r.Get("/check", h.check)     // GET  /api/v1/feedback/check?order_id=&item_id=
			r.Get("/mine", h.listByUser) // GET  /api/v1/feedback/mine
		})
	})

	r.With(auth.Require(auth.RoleAdmin)).Post("/api/v1/admin/ratings/recompute", h.recompute)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	f, err := h.service.Submit(r.Context(), actor.Subject, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]uuid.UUID{"feedback_id": f.ID})
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(r.URL.Query().Get("order_id"))
	if err != nil {
		respondError(w, apperr.Validation("invalid order_id"))
		return
	}
	itemID, err := uuid.Parse(r.URL.Query().Get("item_id"))
	if err != nil {
		respondError(w, apperr.Validation("invalid item_id"))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	exists, err := h.service.Check(r.Context(), actor.Subject, orderID, itemID)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]bool{"exists": exists})
}

func (h *Handler) listByItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrItemNotFound)
		return
	}
	list, err := h.service.ListByItem(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (h *Handler) listByVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrVendorNotFound)
		return
	}
	list, err := h.service.ListByVendor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	list, err := h.service.ListByUser(r.Context(), actor.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, list)
}

func (h *Handler) recompute(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.RecomputeRatings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, map[string]int{"processed": n})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
