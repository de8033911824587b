package handler

import (
	"net/http"
	"strconv"

	"github.com/garrettladley/linebot/internal/storage"
	"github.com/garrettladley/linebot/internal/xerrors"
	"github.com/garrettladley/linebot/internal/xhttp"
)

type Events struct {
	log storage.EventLog
}

func NewEvents(log storage.EventLog) *Events {
	return &Events{log: log}
}

type eventsResponse struct {
	Events []storage.EventRecord `json:"events"`
}

// HandleRecent handles GET /events?limit=N.
func (h *Events) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			xerrors.WriteError(ctx, w, xerrors.BadRequest(xerrors.WithMessage("limit must be a positive integer")))
			return
		}
		limit = n
	}

	records, err := h.log.Recent(ctx, limit)
	if err != nil {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("failed to load events"), xerrors.WithCause(err)))
		return
	}
	if records == nil {
		records = []storage.EventRecord{}
	}

	xhttp.WriteOK(w, eventsResponse{Events: records})
}
