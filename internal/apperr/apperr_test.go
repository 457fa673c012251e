package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore(t *testing.T) {
	assert.NoError(t, Store(nil, ErrOrderNotFound))
	assert.ErrorIs(t, Store(sql.ErrNoRows, ErrOrderNotFound), ErrOrderNotFound)

	err := Store(errors.New("connection refused"), ErrOrderNotFound)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCodeAndStatus(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{fmt.Errorf("update: %w", ErrVendorNotFound), "VENDOR_NOT_FOUND", http.StatusNotFound},
		{ErrOrderNotFound, "ORDER_NOT_FOUND", http.StatusNotFound},
		{ErrItemNotFound, "NOT_FOUND", http.StatusNotFound},
		{fmt.Errorf("locked: %w", ErrIllegalTransition), "ILLEGAL_TRANSITION", http.StatusUnprocessableEntity},
		{Validation("rating must be between 1 and 5"), "VALIDATION_ERROR", http.StatusBadRequest},
		{ErrDuplicateFeedback, "DUPLICATE_FEEDBACK", http.StatusConflict},
		{Store(errors.New("timeout"), ErrNotFound), "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
		{ErrForbidden, "FORBIDDEN", http.StatusForbidden},
		{errors.New("boom"), "INTERNAL", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, Code(tt.err), tt.err.Error())
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}
