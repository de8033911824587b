package handler

import (
	"context"
	"net/http"

	"github.com/garrettladley/linebot/internal/xerrors"
	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/internal/xslog"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports 503 when the dedup store cannot be reached.
func Health(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if err := p.Ping(ctx); err != nil {
			xslog.FromContext(ctx).WarnContext(ctx, "health check failed", xslog.Error(err))
			xerrors.WriteError(ctx, w, xerrors.ServiceUnavailable(xerrors.WithCause(err)))
			return
		}
		xhttp.WriteOK(w, healthResponse{Status: "ok"})
	}
}
