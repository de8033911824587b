package middleware

import (
	"net/http"

	"github.com/garrettladley/linebot/internal/xhttp"
)

// SecurityHeaders marks every response as non-embeddable and uncacheable.
// Nothing this server returns is meant for a browser.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(xhttp.XContentTypeOpts, "nosniff")
		h.Set(xhttp.XFrameOpts, "DENY")
		h.Set(xhttp.ReferrerPolicy, "no-referrer")
		h.Set(xhttp.CacheControl, "no-store")
		next.ServeHTTP(w, r)
	})
}
