package middleware

import (
	"log/slog"
	"net/http"

	"github.com/garrettladley/linebot/internal/xcontext"
	"github.com/garrettladley/linebot/internal/xslog"
)

// Logger puts base, tagged with the request id when one is set, into the
// request context. It must run inside RequestID.
func Logger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := base
			if id, ok := xcontext.RequestID(r.Context()); ok {
				logger = logger.With(xslog.RequestID(id))
			}
			next.ServeHTTP(w, r.WithContext(xslog.WithLogger(r.Context(), logger)))
		})
	}
}
