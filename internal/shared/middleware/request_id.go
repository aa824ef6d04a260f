package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"lang-portal/internal/shared/errors"
	"lang-portal/internal/shared/logging"
)

var validRequestID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// RequestID assigns each request an id, reusing a well-formed incoming
// X-Request-ID and otherwise generating a UUID. The id is echoed in the
// response header and stored in the request context for logging.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(errors.RequestIDHeader)
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}

		w.Header().Set(errors.RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}
