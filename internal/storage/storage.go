package storage

import (
	"context"
	"errors"
	"time"

	go_json "github.com/goccy/go-json"
)

var ErrEmptyEventID = errors.New("storage: empty event id")

// Deduper remembers webhook event ids so redelivered events are handled once.
type Deduper interface {
	// MarkSeen records id and reports whether this is the first time it was seen
	// within ttl.
	MarkSeen(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Forget removes a mark so a later delivery of id is handled again.
	Forget(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// EventRecord is one received webhook event as persisted in the event log.
type EventRecord struct {
	ID          int64              `json:"id"`
	EventID     string             `json:"event_id"`
	EventType   string             `json:"event_type"`
	From        string             `json:"from"`
	ContentType int                `json:"content_type,omitempty"`
	OpType      int                `json:"op_type,omitempty"`
	Payload     go_json.RawMessage `json:"payload"`
	ReceivedAt  time.Time          `json:"received_at"`
}

// EventLog is an append-only record of received webhook events.
type EventLog interface {
	// Record stores rec. inserted is false when an event with the same
	// EventID is already present.
	Record(ctx context.Context, rec EventRecord) (inserted bool, err error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]EventRecord, error)
	Close() error
}

const DefaultRecentLimit = 50

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultRecentLimit
	}
	return min(limit, 500)
}

// payloadText is the stored form of a payload. Both backends keep JSON text and
// an absent payload is stored as JSON null.
func payloadText(p go_json.RawMessage) string {
	if len(p) == 0 {
		return "null"
	}
	return string(p)
}
