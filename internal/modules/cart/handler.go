package cart

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(auth.Require(auth.RoleCustomer))
		r.Get("/", h.get)                         // GET    /api/v1/cart
		r.Post("/items", h.add)                   // POST   /api/v1/cart/items
		r.Delete("/items/{item_id}", h.removeOne) // DELETE /api/v1/cart/items/{item_id}
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.FromContext(r.Context())
	c, err := h.service.Get(r.Context(), actor.Subject)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	c, err := h.service.Add(r.Context(), actor.Subject, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func (h *Handler) removeOne(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "item_id"))
	if err != nil {
		respondError(w, apperr.ErrItemNotFound)
		return
	}
	actor, _ := auth.FromContext(r.Context())
	c, err := h.service.Remove(r.Context(), actor.Subject, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, c)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
