package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUnauthenticated is returned when the bearer credential is missing,
	// malformed, expired, revoked or refers to a user that no longer exists.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrAccountInactive is returned when the authenticated user is not active.
	ErrAccountInactive = errors.New("account is not active")
	// ErrForbidden is returned when the authorization policy denies an action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a lead, user or assignee target does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write loses a race or violates uniqueness.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError carries field-level detail for a rejected request.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// Internal reports whether err maps to a 500 and must be logged server-side.
func Internal(err error) bool {
	return MapErrorToHTTP(err).StatusCode == http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors become a
// generic 500 without leaking their message.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthenticated.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusForbidden, ErrAccountInactive.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
