package middleware

import (
	"net/http"

	"github.com/garrettladley/linebot/internal/xcontext"
	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/google/uuid"
)

type requestIDConfig struct {
	idFunc       func(*http.Request) string
	trustInbound bool
}

type RequestIDOption func(*requestIDConfig)

// WithIDFunc replaces the uuid generator.
func WithIDFunc(f func(*http.Request) string) RequestIDOption {
	return func(c *requestIDConfig) { c.idFunc = f }
}

// WithTrustedInbound reuses a well-formed X-Request-ID sent by an upstream
// proxy instead of minting a new one.
func WithTrustedInbound() RequestIDOption {
	return func(c *requestIDConfig) { c.trustInbound = true }
}

func RequestID(opts ...RequestIDOption) func(http.Handler) http.Handler {
	cfg := requestIDConfig{
		idFunc: func(*http.Request) string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if cfg.trustInbound {
				if inbound, err := uuid.Parse(r.Header.Get(xhttp.XRequestID)); err == nil {
					id = inbound.String()
				}
			}
			if id == "" {
				id = cfg.idFunc(r)
			}

			ctx := xcontext.WithRequestID(r.Context(), id)
			xhttp.SetHeaderRequestID(w, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
