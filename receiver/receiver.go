// Package receiver authenticates inbound webhook deliveries and hands the
// verified event batch to the next handler.
//
// A delivery is accepted only when it is a POST whose raw body matches the
// channel signature header and decodes to an object with a "result" array.
// Every other outcome is answered with the same 470 response; the cause is
// only visible in the server logs.
package receiver

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/garrettladley/linebot/internal/xerrors"
	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/internal/xslog"
	go_json "github.com/goccy/go-json"
)

const (
	// StatusRejected is the status of every rejected delivery.
	StatusRejected = 470

	RejectMessage = "Unable to process the contents of the received request"

	DefaultMaxBodyBytes int64 = 1 << 20
)

type Option func(*verifier)

// WithMaxBodyBytes bounds the buffered body. Values <= 0 disable the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(v *verifier) { v.maxBodyBytes = n }
}

// WithReadTimeout sets a read deadline for the body on the underlying
// connection. Ignored when the ResponseWriter does not support deadlines.
func WithReadTimeout(d time.Duration) Option {
	return func(v *verifier) { v.readTimeout = d }
}

// WithLogger sets the logger used when the request context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(v *verifier) { v.logger = logger }
}

type verifier struct {
	secret       []byte
	maxBodyBytes int64
	readTimeout  time.Duration
	logger       *slog.Logger
}

// Middleware verifies deliveries signed with channelSecret. On success the
// "result" array replaces the request body and is available from Results.
func Middleware(channelSecret string, opts ...Option) func(http.Handler) http.Handler {
	v := &verifier{
		secret:       []byte(channelSecret),
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(v)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			results, raw, err := v.verify(w, r)
			if err != nil {
				v.reject(ctx, w, err)
				return
			}

			v.log(ctx).DebugContext(ctx, "webhook verified",
				xslog.BodySize(len(raw)),
				xslog.Count(len(results)))

			r.Body = io.NopCloser(bytes.NewReader(raw))
			r.ContentLength = int64(len(raw))
			r.Header.Set(xhttp.ContentLength, strconv.Itoa(len(raw)))

			v.forward(w, r.WithContext(withResults(ctx, results)), next)
		})
	}
}

func (v *verifier) verify(w http.ResponseWriter, r *http.Request) ([]go_json.RawMessage, []byte, error) {
	if r.Method != http.MethodPost {
		return nil, nil, reject(StageMethod, fmt.Errorf("%w: %s", ErrMethodNotAllowed, r.Method))
	}

	signature := xhttp.ChannelSignature(r.Header)

	body, digest, err := v.read(w, r)
	if err != nil {
		return nil, nil, reject(StageRead, err)
	}

	if !hmac.Equal([]byte(digest), []byte(signature)) {
		if signature == "" {
			return nil, nil, reject(StageSignature, ErrMissingSignature)
		}
		return nil, nil, reject(StageSignature, ErrInvalidSignature)
	}

	var payload struct {
		Result go_json.RawMessage `json:"result"`
	}
	if err := go_json.Unmarshal(body, &payload); err != nil {
		return nil, nil, reject(StageParse, err)
	}

	raw := bytes.TrimSpace(payload.Result)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, nil, reject(StageShape, ErrMissingResult)
	}

	var results []go_json.RawMessage
	if err := go_json.Unmarshal(raw, &results); err != nil {
		return nil, nil, reject(StageShape, err)
	}

	return results, raw, nil
}

// read streams the body once, feeding the buffer and the HMAC together.
func (v *verifier) read(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	if v.readTimeout > 0 {
		rc := http.NewResponseController(w)
		if err := rc.SetReadDeadline(time.Now().Add(v.readTimeout)); err == nil {
			defer func() { _ = rc.SetReadDeadline(time.Time{}) }()
		} else if !errors.Is(err, http.ErrNotSupported) {
			return nil, "", fmt.Errorf("setting read deadline: %w", err)
		}
	}

	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	if v.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, body, v.maxBodyBytes)
	}

	mac := hmac.New(sha256.New, v.secret)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.TeeReader(body, mac)); err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}

	return buf.Bytes(), base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}

// forward runs next, turning a panic into the generic rejection.
func (v *verifier) forward(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer func() {
		if p := recover(); p != nil {
			if p == http.ErrAbortHandler {
				panic(p)
			}
			ctx := r.Context()
			v.log(ctx).ErrorContext(ctx, "webhook handler panicked",
				xslog.Stage(string(StageHandler)),
				xslog.ErrorGroupWithStack(p),
			)
			writeRejection(ctx, w)
		}
	}()
	next.ServeHTTP(w, r)
}

func (v *verifier) reject(ctx context.Context, w http.ResponseWriter, err error) {
	attrs := []any{xslog.Error(err), xslog.HTTPStatus(StatusRejected)}
	if rejErr := AsRejectError(err); rejErr != nil {
		attrs = append(attrs, xslog.Stage(string(rejErr.Stage)))
	}
	v.log(ctx).WarnContext(ctx, "webhook rejected", attrs...)
	writeRejection(ctx, w)
}

func (v *verifier) log(ctx context.Context) *slog.Logger {
	return xslog.FromContextOr(ctx, v.logger)
}

// writeRejection sends the 470 response. The caller has logged the cause.
func writeRejection(ctx context.Context, w http.ResponseWriter) {
	xerrors.Write(ctx, w, xerrors.New(StatusRejected, xerrors.WithMessage(RejectMessage)))
}

// Sign returns the signature header value a sender must attach to body.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
