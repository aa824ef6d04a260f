package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"lang-portal/internal/shared/errors"
)

// Recoverer turns a handler panic into a logged INTERNAL_ERROR response in
// the standard error body. http.ErrAbortHandler is re-raised so the server
// can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(r.Context(), "panic recovered",
				"panic", rvr,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			errors.WriteError(w, errors.InternalError())
		}()

		next.ServeHTTP(w, r)
	})
}
