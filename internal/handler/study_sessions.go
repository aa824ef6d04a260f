// Package handler provides HTTP handlers for the lang-portal API.
package handler

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/go-chi/chi/v5"

	"lang-portal/internal/shared/errors"
	"lang-portal/internal/shared/utils"
	"lang-portal/internal/shared/validation"
	"lang-portal/internal/studysessions"
	"lang-portal/internal/studysessions/models"
	"lang-portal/internal/studysessions/service"
)

const maxBodyBytes = 1 << 20

// StudySessionsHandler handles HTTP requests for study session operations.
type StudySessionsHandler struct {
	service *studysessions.SessionService
}

// NewStudySessionsHandler creates a new StudySessionsHandler.
func NewStudySessionsHandler(svc *studysessions.SessionService) *StudySessionsHandler {
	return &StudySessionsHandler{service: svc}
}

// Mount registers the study session routes on r.
func (h *StudySessionsHandler) Mount(r chi.Router) {
	r.Get("/study-sessions", h.List)
	r.Post("/study-sessions", h.Create)
	r.Post("/study-sessions/reset", h.Reset)
	r.Get("/study-sessions/{id}", h.Get)
	r.Post("/study-sessions/{id}/review", h.CreateReview)
}

// List handles GET /api/study-sessions - lists sessions, newest first.
func (h *StudySessionsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := utils.ParsePageParams(r.URL.Query())

	result, err := h.service.ListSessions(r.Context(), page, perPage)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, result)
}

// Create handles POST /api/study-sessions - creates a session.
func (h *StudySessionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.SessionCreate
	if err := decodeJSONObject(w, r, &input, models.ErrMissingSessionFields); err != nil {
		errors.WriteError(w, err)
		return
	}

	session, err := h.service.CreateSession(r.Context(), &input)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusCreated, models.CreateSessionResponse{
		Message: service.MsgSessionCreated,
		Session: session,
	})
}

// Get handles GET /api/study-sessions/{id} - returns a session and a page of its words.
func (h *StudySessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		errors.WriteError(w, errors.NotFoundError(service.MsgSessionNotFound))
		return
	}

	page, perPage := utils.ParsePageParams(r.URL.Query())

	detail, err := h.service.GetSession(r.Context(), id, page, perPage)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, detail)
}

// CreateReview handles POST /api/study-sessions/{id}/review - records a word review.
func (h *StudySessionsHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		errors.WriteError(w, errors.NotFoundError(service.MsgSessionNotFound))
		return
	}

	var input models.ReviewCreate
	if err := decodeJSONObject(w, r, &input, models.ErrMissingReviewFields); err != nil {
		errors.WriteError(w, err)
		return
	}

	item, err := h.service.CreateReview(r.Context(), id, &input)
	if err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusCreated, models.CreateReviewResponse{
		Message:    service.MsgReviewRecorded,
		ReviewItem: item,
	})
}

// Reset handles POST /api/study-sessions/reset - clears all study history.
func (h *StudySessionsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if _, err := h.service.ResetSessions(r.Context()); err != nil {
		errors.WriteError(w, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, models.MessageResponse{Message: service.MsgHistoryCleared})
}

func sessionID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeJSONObject reads a JSON request body into dst. A body that is valid
// JSON but not an object is reported with the missing-fields error.
func decodeJSONObject(w http.ResponseWriter, r *http.Request, dst any, missing error) error {
	if !validation.IsJSONContentType(r.Header.Get("Content-Type")) {
		return errors.ValidationError("Content-Type must be application/json")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.ValidationError("Request body too large")
		}
		return errors.ValidationError("Invalid JSON body")
	}

	if !json.Valid(body) {
		return errors.ValidationError("Invalid JSON body")
	}
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.ValidationError(missing.Error())
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if stderrors.As(err, &typeErr) && typeErr.Field != "" {
			return errors.ValidationError(fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type)))
		}
		return errors.ValidationError("Invalid JSON body")
	}
	return nil
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "valid"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "an integer"
	case reflect.String:
		return "a string"
	default:
		return "valid"
	}
}
