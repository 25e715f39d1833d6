package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"inactive", ErrAccountInactive, http.StatusForbidden, "ACCOUNT_INACTIVE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"wrapped not found", fmt.Errorf("lead: %w", ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", ErrConflict, http.StatusConflict, "CONFLICT"},
		{"validation", NewValidationError("status", "unknown status"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown", errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_DoesNotLeakInternalDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("Error 1045: Access denied for user 'root'"))
	assert.Equal(t, "internal server error", httpErr.Message)
	assert.True(t, Internal(errors.New("boom")))
	assert.False(t, Internal(ErrForbidden))
}

func TestValidationError_FieldsInResponse(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"status": "unknown", "email": "invalid"}}
	resp := MapErrorToHTTP(fmt.Errorf("update lead: %w", err)).ToErrorResponse()

	assert.Equal(t, "invalid", resp.Fields["email"])
	assert.Equal(t, "unknown", resp.Fields["status"])
	assert.Equal(t, "validation failed: email: invalid; status: unknown", err.Error())
}
