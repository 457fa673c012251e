// Package apperr holds the error taxonomy shared by every module and its
// mapping onto HTTP responses.
package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrOrderNotFound     = fmt.Errorf("order %w", ErrNotFound)
	ErrVendorNotFound    = fmt.Errorf("vendor %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item %w", ErrNotFound)
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicateFeedback = errors.New("feedback already submitted")
	ErrConflict          = errors.New("conflict")
	ErrStoreUnavailable  = errors.New("store unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// Validation wraps ErrValidation with a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Store classifies a driver error: no rows becomes notFound, anything else
// is reported as ErrStoreUnavailable so the caller knows a retry may help.
func Store(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Code is the stable tag sent to clients next to the message.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrVendorNotFound):
		return "VENDOR_NOT_FOUND"
	case errors.Is(err, ErrOrderNotFound):
		return "ORDER_NOT_FOUND"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrIllegalTransition):
		return "ILLEGAL_TRANSITION"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, ErrDuplicateFeedback):
		return "DUPLICATE_FEEDBACK"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrStoreUnavailable):
		return "STORE_UNAVAILABLE"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	}
	return "INTERNAL"
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrIllegalTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateFeedback), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
