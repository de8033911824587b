package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/garrettladley/linebot/api"
	"github.com/garrettladley/linebot/content"
	"github.com/garrettladley/linebot/event"
	"github.com/garrettladley/linebot/internal/storage"
	"github.com/garrettladley/linebot/internal/xerrors"
	"github.com/garrettladley/linebot/internal/xhttp"
	"github.com/garrettladley/linebot/internal/xslog"
	"github.com/garrettladley/linebot/receiver"
)

const defaultDedupTTL = 24 * time.Hour

// Sender delivers outbound events. *api.Client satisfies it.
type Sender interface {
	Post(ctx context.Context, e event.Event) (*api.SendResult, error)
}

type CallbackConfig struct {
	Deduper  storage.Deduper
	EventLog storage.EventLog
	// Sender is used for echo replies. A nil Sender disables echoing.
	Sender   Sender
	DedupTTL time.Duration
}

type Callback struct {
	dedup    storage.Deduper
	events   storage.EventLog
	sender   Sender
	dedupTTL time.Duration
	now      func() time.Time
}

func NewCallback(cfg CallbackConfig) *Callback {
	ttl := cfg.DedupTTL
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &Callback{
		dedup:    cfg.Deduper,
		events:   cfg.EventLog,
		sender:   cfg.Sender,
		dedupTTL: ttl,
		now:      time.Now,
	}
}

type callbackResponse struct {
	Received   int `json:"received"`
	Processed  int `json:"processed"`
	Duplicates int `json:"duplicates"`
	Failed     int `json:"failed"`
}

type outcome int

const (
	outcomeProcessed outcome = iota
	outcomeDuplicate
	outcomeFailed
)

// HandleCallback handles a verified webhook batch. It must sit behind
// receiver.Middleware. A verified batch is always acknowledged with 200;
// failures of individual events are logged and counted.
func (h *Callback) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := xslog.FromContext(ctx)

	results, ok := receiver.Results(ctx)
	if !ok {
		xerrors.WriteError(ctx, w, xerrors.Internal(xerrors.WithMessage("callback reached without a verified batch")))
		return
	}

	resp := callbackResponse{Received: len(results)}

	events, err := receiver.ParseEvents(results)
	if err != nil {
		logger.WarnContext(ctx, "failed to parse webhook batch", xslog.Error(err), xslog.Count(len(results)))
		resp.Failed = len(results)
		xhttp.WriteOK(w, resp)
		return
	}

	for _, e := range events {
		switch h.handle(ctx, e) {
		case outcomeProcessed:
			resp.Processed++
		case outcomeDuplicate:
			resp.Duplicates++
		case outcomeFailed:
			resp.Failed++
		}
	}

	logger.InfoContext(ctx, "webhook batch handled",
		xslog.Count(resp.Received),
		xslog.Processed(resp.Processed),
		xslog.Duplicates(resp.Duplicates))

	xhttp.WriteOK(w, resp)
}

// handle marks the event as seen and processes it. A failed event is unmarked
// so a redelivery within the dedup TTL is handled again.
func (h *Callback) handle(ctx context.Context, e receiver.Event) outcome {
	ctx = xslog.WithAttrs(ctx, xslog.EventID(e.ID), xslog.EventType(e.EventType))
	logger := xslog.FromContext(ctx)

	first, err := h.dedup.MarkSeen(ctx, e.ID, h.dedupTTL)
	if err != nil {
		logger.ErrorContext(ctx, "failed to check event delivery", xslog.Error(err))
		return outcomeFailed
	}
	if !first {
		logger.DebugContext(ctx, "skipping redelivered event")
		return outcomeDuplicate
	}

	out := h.process(ctx, e)
	if out == outcomeFailed {
		if err := h.dedup.Forget(ctx, e.ID); err != nil {
			logger.ErrorContext(ctx, "failed to release event for redelivery", xslog.Error(err))
		}
	}
	return out
}

func (h *Callback) process(ctx context.Context, e receiver.Event) outcome {
	logger := xslog.FromContext(ctx)

	rec := storage.EventRecord{
		EventID:    e.ID,
		EventType:  e.EventType,
		From:       e.From,
		Payload:    e.Content,
		ReceivedAt: h.now(),
	}

	var msg *receiver.Message
	switch {
	case e.IsMessage():
		var err error
		msg, err = e.Message()
		if err != nil {
			logger.WarnContext(ctx, "failed to decode message", xslog.Error(err))
			return outcomeFailed
		}
		rec.From = msg.From
		rec.ContentType = int(msg.ContentType)
	case e.IsOperation():
		op, err := e.Operation()
		if err != nil {
			logger.WarnContext(ctx, "failed to decode operation", xslog.Error(err))
			return outcomeFailed
		}
		rec.From = op.MID()
		rec.OpType = int(op.OpType)
		logger.InfoContext(ctx, "operation received", xslog.MID(rec.From), xslog.Operation(op.OpType.String()))
	default:
		logger.WarnContext(ctx, "unknown event type")
	}

	inserted, err := h.events.Record(ctx, rec)
	if err != nil {
		logger.ErrorContext(ctx, "failed to record event", xslog.Error(err))
		return outcomeFailed
	}
	if !inserted {
		// Recorded by an earlier delivery whose handling did not complete.
		logger.DebugContext(ctx, "event already recorded")
	}

	if msg != nil && h.sender != nil {
		if err := h.echo(ctx, msg); err != nil {
			logger.ErrorContext(ctx, "failed to echo message", xslog.Error(err), xslog.MID(msg.From))
			return outcomeFailed
		}
	}

	return outcomeProcessed
}

// echo sends text, location and sticker messages back to their sender.
// Media messages carry no reusable URL and are not echoed.
func (h *Callback) echo(ctx context.Context, msg *receiver.Message) error {
	switch msg.ContentType {
	case content.TypeText, content.TypeLocation, content.TypeSticker:
	default:
		return nil
	}

	payload, err := msg.Payload()
	if errors.Is(err, content.ErrUnknownContentType) {
		return nil
	}
	if err != nil {
		return err
	}

	result, err := h.sender.Post(ctx, event.NewSingle([]string{msg.From}, payload))
	if err != nil {
		return err
	}

	xslog.FromContext(ctx).DebugContext(ctx, "echo sent",
		xslog.MID(msg.From),
		xslog.ContentType(msg.ContentType.String()),
		xslog.MessageID(result.MessageID))
	return nil
}
