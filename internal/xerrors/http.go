package xerrors

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/garrettladley/linebot/internal/xcontext"
	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/internal/xslog"
	go_json "github.com/goccy/go-json"
)

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	appErr := asOrInternal(err)
	logError(ctx, appErr)
	write(ctx, w, appErr)
}

// Write sends err like WriteError without logging it, for callers that have
// already logged the failure with more context.
func Write(ctx context.Context, w http.ResponseWriter, err error) {
	write(ctx, w, asOrInternal(err))
}

func asOrInternal(err error) *Error {
	if appErr := As(err); appErr != nil {
		return appErr
	}
	return Internal(WithCause(err))
}

func write(ctx context.Context, w http.ResponseWriter, appErr *Error) {
	xhttp.SetHeaderContentTypeApplicationJSON(w)
	w.WriteHeader(appErr.StatusCode)

	resp := errorResponse{Message: appErr.Message}
	if id, ok := xcontext.RequestID(ctx); ok {
		resp.RequestID = id
	}
	_ = go_json.NewEncoder(w).Encode(resp)
}

func logError(ctx context.Context, err *Error) {
	logger := xslog.FromContext(ctx)
	attrs := []any{
		xslog.HTTPStatus(err.StatusCode),
		slog.String("message", err.Message),
	}
	if err.Cause != nil {
		attrs = append(attrs, xslog.Error(err.Cause))
	}

	switch err.StatusCode / 100 {
	case 5:
		logger.ErrorContext(ctx, "server error", attrs...)
	case 4:
		logger.WarnContext(ctx, "client error", attrs...)
	default:
		logger.InfoContext(ctx, "error response", attrs...)
	}
}
