package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/receiver"
)

func newTestMux(t *testing.T, forwarded *[]string) *http.ServeMux {
	t.Helper()

	const secret = "s3cr3t"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	verify := receiver.Middleware(secret, receiver.WithLogger(logger))
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	return NewMux(Routes{
		WebhookPath: "/callback",
		Webhook: verify(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b, _ := io.ReadAll(r.Body)
			*forwarded = append(*forwarded, string(b))
			w.WriteHeader(http.StatusOK)
		})),
		Events: ok,
		Health: ok,
	})
}

func TestNewMux_WebhookMethods(t *testing.T) {
	t.Parallel()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodHead} {
		t.Run(method, func(t *testing.T) {
			t.Parallel()

			var forwarded []string
			mux := newTestMux(t, &forwarded)

			req := httptest.NewRequestWithContext(t.Context(), method, "/callback", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != receiver.StatusRejected {
				t.Errorf("%s /callback status = %d, want %d", method, rec.Code, receiver.StatusRejected)
			}
			if len(forwarded) != 0 {
				t.Errorf("forwarded %d bodies, want 0", len(forwarded))
			}
		})
	}
}

func TestNewMux_SignedPost(t *testing.T) {
	t.Parallel()

	var forwarded []string
	mux := newTestMux(t, &forwarded)

	const body = `{"result":[{"a":1}]}`
	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set(xhttp.XLineChannelSignature, receiver.Sign("s3cr3t", []byte(body)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(forwarded) != 1 || forwarded[0] != `[{"a":1}]` {
		t.Errorf("forwarded = %v, want [[{\"a\":1}]]", forwarded)
	}
}

func TestNewMux_ReadOnlyRoutes(t *testing.T) {
	t.Parallel()

	var forwarded []string
	mux := newTestMux(t, &forwarded)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{method: http.MethodGet, path: "/events", want: http.StatusOK},
		{method: http.MethodGet, path: "/health", want: http.StatusOK},
		{method: http.MethodPost, path: "/events", want: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		req := httptest.NewRequestWithContext(t.Context(), tt.method, tt.path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
