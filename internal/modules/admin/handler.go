package admin

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
	"github.com/georgemunganga/foodcourt-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/admin/vendors", func(r chi.Router) {
		r.Use(auth.Require(auth.RoleAdmin))
		r.Get("/", h.listVendors)                  // GET    /api/v1/admin/vendors
		r.Delete("/{id}", h.deactivateVendor)      // DELETE /api/v1/admin/vendors/{id}
		r.Post("/{id}/activate", h.activateVendor) // POST   /api/v1/admin/vendors/{id}/activate
	})
}

func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.ListVendorStats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, stats)
}

func (h *Handler) deactivateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrVendorNotFound)
		return
	}
	resp, err := h.service.DeactivateVendor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, resp)
}

func (h *Handler) activateVendor(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, apperr.ErrVendorNotFound)
		return
	}
	v, err := h.service.ActivateVendor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, v)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	respond(w, apperr.HTTPStatus(err), map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
