package transport

import (
	"log/slog"
	"net/http"
)

// Recovery returns middleware that catches panics escaping the handler
// stack and converts them to generic 500 responses. The server keeps
// accepting requests after a recovered panic. The dispatcher has its
// own recovery for handler code; this is the outermost safety net.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered",
					"panic", rec,
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(`{"error":"internal server error"}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
