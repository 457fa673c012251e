package auth

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"

	"github.com/georgemunganga/foodcourt-backend/internal/apperr"
)

// Authenticate attaches the bearer token's principal to the request context.
// Requests without a token pass through anonymous; Require rejects them later.
func Authenticate(issuer *Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				deny(w, apperr.ErrUnauthorized)
				return
			}
			p, err := issuer.Parse(token)
			if err != nil {
				deny(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// Require only lets through principals holding one of roles.
func Require(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := FromContext(r.Context())
			if !ok {
				deny(w, apperr.ErrUnauthorized)
				return
			}
			if !slices.Contains(roles, p.Role) {
				deny(w, apperr.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apperr.HTTPStatus(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error(), "code": apperr.Code(err)})
}
