// Package event wraps content into the envelopes posted to the events endpoint.
package event

import (
	"fmt"
	"reflect"

	"github.com/garrettladley/linebot/content"
	go_json "github.com/goccy/go-json"
)

const (
	// ToChannel is the fixed channel id of the sending endpoint.
	ToChannel = 1383378250

	// MaxRecipients caps the serialized recipient list.
	MaxRecipients = 150

	EventTypeSingle   = "138311608800106203"
	EventTypeMultiple = "140177271400161403"
)

type Event interface {
	To() []string
	ToChannel() int
	EventType() string
	MarshalJSON() ([]byte, error)
}

var (
	_ Event = (*Single)(nil)
	_ Event = (*Multiple)(nil)
)

// recipients is the part of every envelope that addresses users by mid.
type recipients struct {
	to []string
}

func (r *recipients) To() []string {
	to := make([]string, len(r.to))
	copy(to, r.to)
	return to
}

// SetTo replaces the recipient list, dropping empty ids.
// A nil or empty list leaves the current recipients in place.
func (r *recipients) SetTo(mids []string) {
	if len(mids) == 0 {
		return
	}
	to := make([]string, 0, len(mids))
	for _, mid := range mids {
		if mid != "" {
			to = append(to, mid)
		}
	}
	r.to = to
}

func (*recipients) ToChannel() int { return ToChannel }

func (r *recipients) capped() []string {
	if len(r.to) > MaxRecipients {
		return r.To()[:MaxRecipients]
	}
	return r.To()
}

type envelope struct {
	To        []string `json:"to"`
	ToChannel int      `json:"toChannel"`
	EventType string   `json:"eventType"`
	Content   any      `json:"content"`
}

func (r *recipients) marshal(eventType string, c any) ([]byte, error) {
	data, err := go_json.Marshal(envelope{
		To:        r.capped(),
		ToChannel: ToChannel,
		EventType: eventType,
		Content:   c,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return data, nil
}

// Single delivers one content payload.
type Single struct {
	recipients
	content content.Content
}

func NewSingle(to []string, c content.Content) *Single {
	s := &Single{}
	s.SetTo(to)
	s.SetContent(c)
	return s
}

func (*Single) EventType() string { return EventTypeSingle }

// Content returns nil until a content payload has been set.
func (s *Single) Content() content.Content { return s.content }

// SetContent ignores nil, including a nil pointer held in the interface.
func (s *Single) SetContent(c content.Content) {
	if valid(c) {
		s.content = c
	}
}

func valid(c content.Content) bool {
	if c == nil {
		return false
	}
	v := reflect.ValueOf(c)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return !v.IsNil()
	default:
		return true
	}
}

func (s *Single) MarshalJSON() ([]byte, error) {
	var c any = struct{}{}
	if s.content != nil {
		c = s.content
	}
	return s.marshal(EventTypeSingle, c)
}
