package middleware

import (
	"log/slog"
	"net/http"

	"github.com/leoprim/ebutikpartner-sub001/internal/api/response"
)

// Recovery is middleware that recovers from panics and returns a 500 error.
// No failure is fatal to the process; every panic is scoped to one request.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "requestId", GetRequestID(r.Context()), "path", r.URL.Path)
				response.Err(w, http.StatusInternalServerError, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
