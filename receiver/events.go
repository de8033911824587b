package receiver

import (
	"errors"
	"fmt"

	"github.com/garrettladley/linebot/content"
	go_json "github.com/goccy/go-json"
)

const (
	EventTypeMessage   = "138311609000106303"
	EventTypeOperation = "138311609100106403"
)

var (
	ErrNotMessage   = errors.New("event is not a message")
	ErrNotOperation = errors.New("event is not an operation")
)

type OperationType int

const (
	OperationAddedAsFriend  OperationType = 4
	OperationBlockedAccount OperationType = 8
)

func (t OperationType) String() string {
	switch t {
	case OperationAddedAsFriend:
		return "added_as_friend"
	case OperationBlockedAccount:
		return "blocked_account"
	default:
		return fmt.Sprintf("operation(%d)", int(t))
	}
}

// Event is one entry of a delivered batch. Content is decoded on demand with
// Message or Operation depending on EventType.
type Event struct {
	ID          string             `json:"id"`
	From        string             `json:"from"`
	FromChannel int64              `json:"fromChannel"`
	To          []string           `json:"to"`
	ToChannel   int64              `json:"toChannel"`
	EventType   string             `json:"eventType"`
	Content     go_json.RawMessage `json:"content"`
}

func (e Event) IsMessage() bool   { return e.EventType == EventTypeMessage }
func (e Event) IsOperation() bool { return e.EventType == EventTypeOperation }

type Message struct {
	ID              string            `json:"id"`
	ContentType     content.Type      `json:"contentType"`
	From            string            `json:"from"`
	CreatedTime     int64             `json:"createdTime"`
	To              []string          `json:"to"`
	ToType          int               `json:"toType"`
	ContentMetadata map[string]string `json:"contentMetadata"`
	Text            string            `json:"text"`
	Location        *content.Place    `json:"location"`

	raw go_json.RawMessage
}

// Payload decodes the message body into its content variant.
func (m *Message) Payload() (content.Content, error) {
	return content.Unmarshal(m.raw)
}

type Operation struct {
	Revision int64         `json:"revision"`
	OpType   OperationType `json:"opType"`
	Params   []*string     `json:"params"`
}

// MID returns the user the operation concerns, the first non-null param.
func (o *Operation) MID() string {
	for _, p := range o.Params {
		if p != nil && *p != "" {
			return *p
		}
	}
	return ""
}

func (e Event) Message() (*Message, error) {
	if !e.IsMessage() {
		return nil, fmt.Errorf("%w: %s", ErrNotMessage, e.EventType)
	}
	var m Message
	if err := go_json.Unmarshal(e.Content, &m); err != nil {
		return nil, fmt.Errorf("decoding message content: %w", err)
	}
	m.raw = e.Content
	return &m, nil
}

func (e Event) Operation() (*Operation, error) {
	if !e.IsOperation() {
		return nil, fmt.Errorf("%w: %s", ErrNotOperation, e.EventType)
	}
	var o Operation
	if err := go_json.Unmarshal(e.Content, &o); err != nil {
		return nil, fmt.Errorf("decoding operation content: %w", err)
	}
	return &o, nil
}

// ParseEvents decodes a verified batch. It fails on the first malformed entry.
func ParseEvents(results []go_json.RawMessage) ([]Event, error) {
	events := make([]Event, 0, len(results))
	for i, raw := range results {
		var e Event
		if err := go_json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("decoding event %d: %w", i, err)
		}
		events = append(events, e)
	}
	return events, nil
}
