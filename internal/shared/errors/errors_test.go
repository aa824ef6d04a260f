package errors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	err := ValidationError("Missing required fields")
	if err.Code != CodeValidation {
		t.Errorf("expected code VALIDATION_ERROR, got %s", err.Code)
	}
	if err.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", err.StatusCode)
	}
	if err.Error() != "Missing required fields" {
		t.Errorf("unexpected message %s", err.Error())
	}
}

func TestReferenceAndIntegrityErrors(t *testing.T) {
	ref := ReferenceError("Group with id 7 does not exist")
	if ref.Code != CodeReference || ref.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected reference error %+v", ref)
	}

	integrity := IntegrityError("Referenced row does not exist")
	if integrity.Code != CodeIntegrity || integrity.StatusCode != http.StatusBadRequest {
		t.Errorf("unexpected integrity error %+v", integrity)
	}
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("Study session not found")
	if err.Code != CodeNotFound {
		t.Errorf("expected code NOT_FOUND, got %s", err.Code)
	}
	if err.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", err.StatusCode)
	}
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError(30)
	if err.Code != CodeRateLimit {
		t.Errorf("expected code RATE_LIMITED, got %s", err.Code)
	}
	if err.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", err.StatusCode)
	}
	if err.RetryAfter != 30 {
		t.Errorf("expected retry after 30, got %d", err.RetryAfter)
	}
}

func TestInternalError(t *testing.T) {
	err := InternalError()
	if err.Code != CodeInternal {
		t.Errorf("expected code INTERNAL_ERROR, got %s", err.Code)
	}
	if err.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", err.StatusCode)
	}
	if err.Message != "An internal error occurred" {
		t.Errorf("expected generic message, got %s", err.Message)
	}
}

func TestWriteError_ValidationError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, ValidationError("Content-Type must be application/json"))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Code != CodeValidation {
		t.Errorf("expected code VALIDATION_ERROR, got %s", response.Code)
	}
	if response.Error != "Content-Type must be application/json" {
		t.Errorf("unexpected message %q", response.Error)
	}
}

func TestWriteError_WrappedAPIError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, fmt.Errorf("get session: %w", NotFoundError("Study session not found")))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestWriteError_RateLimitSetsRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, NewRateLimitError(12))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "12" {
		t.Errorf("expected Retry-After 12, got %q", got)
	}
}

func TestWriteError_EchoesRequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	rr.Header().Set(RequestIDHeader, "req-123")
	WriteError(rr, NotFoundError("Study session not found"))

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.RequestID != "req-123" {
		t.Errorf("expected request id req-123, got %q", response.RequestID)
	}
}

func TestWriteError_UnknownError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("database is locked: /var/lib/words.db"))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}

	var response ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Error != "An internal error occurred" {
		t.Errorf("expected generic message, got %s", response.Error)
	}
}

func TestMethodNotAllowedError(t *testing.T) {
	err := MethodNotAllowedError()
	if err.Code != CodeMethod {
		t.Errorf("expected code METHOD_NOT_ALLOWED, got %s", err.Code)
	}
	if err.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", err.StatusCode)
	}
}

func TestWriteError_LogsUnexpectedWithRequestID(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))

	w := httptest.NewRecorder()
	w.Header().Set(RequestIDHeader, "rid-9")
	WriteError(w, errors.New("disk I/O error"))

	out := buf.String()
	if !strings.Contains(out, "request_id=rid-9") || !strings.Contains(out, "disk I/O error") {
		t.Errorf("unexpected log output: %s", out)
	}
	if strings.Contains(w.Body.String(), "disk I/O") {
		t.Errorf("internal detail leaked into body: %s", w.Body.String())
	}
}
