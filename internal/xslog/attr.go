package xslog

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/garrettladley/linebot/internal/version"
	"github.com/garrettladley/linebot/internal/xhttp"
)

const (
	keyError = "error"
)

func Error(err error) slog.Attr {
	return slog.String(keyError, err.Error())
}

func RequestID(requestID string) slog.Attr {
	const requestIDKey = "request_id"
	return slog.String(requestIDKey, requestID)
}

func Stack() slog.Attr {
	const stackKey = "stack"
	return slog.String(stackKey, string(debug.Stack()))
}

func HTTPStatus(status int) slog.Attr {
	const statusKey = "status"
	return slog.Int(statusKey, status)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func RequestMethod(r *http.Request) slog.Attr {
	const methodKey = "method"
	return slog.String(methodKey, r.Method)
}

func RequestPath(r *http.Request) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, r.URL.Path)
}

func IP(ip string) slog.Attr {
	const ipKey = "ip"
	return slog.String(ipKey, ip)
}

func RequestIP(r *http.Request) slog.Attr {
	return IP(xhttp.GetRequestIP(r))
}

func Version() slog.Attr {
	const versionKey = "version"
	return slog.String(versionKey, version.Get())
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func URL(u string) slog.Attr {
	const urlKey = "url"
	return slog.String(urlKey, u)
}

// Stage names the webhook verification step that rejected a delivery.
func Stage(stage string) slog.Attr {
	const stageKey = "stage"
	return slog.String(stageKey, stage)
}

func EventID(id string) slog.Attr {
	const eventIDKey = "event_id"
	return slog.String(eventIDKey, id)
}

func EventType(eventType string) slog.Attr {
	const eventTypeKey = "event_type"
	return slog.String(eventTypeKey, eventType)
}

func MID(mid string) slog.Attr {
	const midKey = "mid"
	return slog.String(midKey, mid)
}

func ContentType(contentType string) slog.Attr {
	const contentTypeKey = "content_type"
	return slog.String(contentTypeKey, contentType)
}

func BodySize(n int) slog.Attr {
	const bodySizeKey = "body_size"
	return slog.Int(bodySizeKey, n)
}

func Operation(op string) slog.Attr {
	const operationKey = "operation"
	return slog.String(operationKey, op)
}

func MessageID(id string) slog.Attr {
	const messageIDKey = "message_id"
	return slog.String(messageIDKey, id)
}

func Processed(n int) slog.Attr {
	const processedKey = "processed"
	return slog.Int(processedKey, n)
}

func Duplicates(n int) slog.Attr {
	const duplicatesKey = "duplicates"
	return slog.Int(duplicatesKey, n)
}
