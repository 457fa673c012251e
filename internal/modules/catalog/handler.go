package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/catalog/items", func(r chi.Router) {
		r.Get("/", h.listItems)    // GET /api/v1/catalog/items?vendor_id=&category=&available=true
		r.Get("/{id}", h.getItem) // GET /api/v1/catalog/items/{id}

		r.Group(func(r chi.Router) {
			r.Use(auth.Require(auth.RoleVendor, auth.RoleAdmin))
			r.Post("/", h.createItem)          // POST  /api/v1/catalog/items
			r.Put("/{id}", h.updateItem)       // PUT   /api/v1/catalog/items/{id}
			r.Patch("/{id}/pause", h.setPause) // PATCH /api/v1/catalog/items/{id}/pause
		})
	})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{Category: q.Get("category"), AvailableOnly: q.Get("available") == "true"}
	if raw := q.Get("vendor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperr.Validation("invalid vendor_id"))
			return
		}
		f.VendorID = id
	}
	items, err := h.service.ListItems(r.Context(), f)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrItemNotFound)
		return
	}
	it, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	it, err := h.service.CreateItem(r.Context(), actor, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusCreated, it)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrItemNotFound)
		return
	}
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	it, err := h.service.UpdateItem(r.Context(), actor, id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, it)
}

func (h *Handler) setPause(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrItemNotFound)
		return
	}
	var req PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, apperr.Validation("malformed body: %v", err))
		return
	}
	actor, _ := auth.FromContext(r.Context())
	it, err := h.service.SetPaused(r.Context(), actor, id, req.Paused)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, it)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
