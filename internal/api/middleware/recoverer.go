package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/goccy/go-json"
)

var panicBody, _ = json.Marshal(map[string]string{
	"error":   "internal_error",
	"message": "An unexpected error occurred",
})

// Recoverer turns a handler panic into a JSON 500 response.
// http.ErrAbortHandler is re-raised so the server can drop the connection.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write(panicBody)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
