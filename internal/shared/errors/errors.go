// Package errors provides the API error taxonomy and its JSON rendering.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
)

// Error codes exposed to clients.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeReference  = "REFERENCE_ERROR"
	CodeIntegrity  = "INTEGRITY_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeMethod     = "METHOD_NOT_ALLOWED"
	CodeRateLimit  = "RATE_LIMITED"
	CodeInternal   = "INTERNAL_ERROR"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const internalMessage = "An internal error occurred"

// APIError is the base error type for all errors surfaced to clients.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse is the JSON error body. Error holds the human-readable message.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// ValidationError represents a 400 for malformed or incomplete input.
func ValidationError(message string) *APIError {
	return &APIError{
		Code:       CodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// ReferenceError represents a 400 for a foreign key that points at nothing.
func ReferenceError(message string) *APIError {
	return &APIError{
		Code:       CodeReference,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// IntegrityError represents a 400 for a constraint violation raised by the store.
func IntegrityError(message string) *APIError {
	return &APIError{
		Code:       CodeIntegrity,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NotFoundError represents a 404 Not Found error.
func NotFoundError(message string) *APIError {
	return &APIError{
		Code:       CodeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// MethodNotAllowedError represents a 405 for a known path with the wrong method.
func MethodNotAllowedError() *APIError {
	return &APIError{
		Code:       CodeMethod,
		Message:    "Method not allowed",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// RateLimitError represents a 429 Too Many Requests error.
type RateLimitError struct {
	*APIError
	RetryAfter int
}

// NewRateLimitError creates a new rate limit error with retry-after seconds.
func NewRateLimitError(retryAfter int) *RateLimitError {
	return &RateLimitError{
		APIError: &APIError{
			Code:       CodeRateLimit,
			Message:    "Too many requests",
			StatusCode: http.StatusTooManyRequests,
		},
		RetryAfter: retryAfter,
	}
}

// InternalError represents a 500 Internal Server Error.
// It never carries internal details.
func InternalError() *APIError {
	return &APIError{
		Code:       CodeInternal,
		Message:    internalMessage,
		StatusCode: http.StatusInternalServerError,
	}
}

// WriteError writes an error response. Errors that are not part of the
// taxonomy are logged and rendered as a generic internal error.
func WriteError(w http.ResponseWriter, err error) {
	requestID := w.Header().Get(RequestIDHeader)

	var (
		rateErr *RateLimitError
		apiErr  *APIError
	)

	switch {
	case stderrors.As(err, &rateErr):
		w.Header().Set("Retry-After", strconv.Itoa(rateErr.RetryAfter))
		apiErr = rateErr.APIError
	case stderrors.As(err, &apiErr):
	default:
		slog.Error("unexpected error", "error", err, "request_id", requestID)
		apiErr = InternalError()
	}

	WriteJSON(w, apiErr.StatusCode, ErrorResponse{
		Error:     apiErr.Message,
		Code:      apiErr.Code,
		RequestID: requestID,
	})
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
