package event

import "github.com/garrettladley/linebot/content"

// Multiple delivers an ordered list of content payloads. MessageNotified is
// the index of the message that triggers the recipient's notification and
// always points inside the list.
type Multiple struct {
	recipients
	messages        []content.Content
	messageNotified int
}

func NewMultiple(to []string, messages []content.Content, messageNotified int) *Multiple {
	m := &Multiple{}
	m.SetTo(to)
	m.SetMessages(messages)
	m.SetMessageNotified(messageNotified)
	return m
}

func (*Multiple) EventType() string { return EventTypeMultiple }

func (m *Multiple) Messages() []content.Content {
	msgs := make([]content.Content, len(m.messages))
	copy(msgs, m.messages)
	return msgs
}

// SetMessages replaces the list, dropping nil entries. An empty list is ignored.
func (m *Multiple) SetMessages(messages []content.Content) {
	if len(messages) == 0 {
		return
	}
	msgs := make([]content.Content, 0, len(messages))
	for _, c := range messages {
		if valid(c) {
			msgs = append(msgs, c)
		}
	}
	m.messages = msgs
	m.clamp()
}

func (m *Multiple) AddMessage(c content.Content) {
	if !valid(c) {
		return
	}
	m.messages = append(m.messages, c)
	m.clamp()
}

func (m *Multiple) AddMessages(cs ...content.Content) {
	for _, c := range cs {
		m.AddMessage(c)
	}
}

func (m *Multiple) MessageNotified() int { return m.messageNotified }

// SetMessageNotified ignores negative indexes and clamps the rest to the list.
func (m *Multiple) SetMessageNotified(n int) {
	if n < 0 {
		return
	}
	m.messageNotified = n
	m.clamp()
}

func (m *Multiple) clamp() {
	last := max(len(m.messages)-1, 0)
	m.messageNotified = min(max(m.messageNotified, 0), last)
}

type multipleContent struct {
	Messages        []content.Content `json:"messages"`
	MessageNotified int               `json:"messageNotified"`
}

func (m *Multiple) MarshalJSON() ([]byte, error) {
	return m.marshal(EventTypeMultiple, multipleContent{
		Messages:        m.Messages(),
		MessageNotified: m.messageNotified,
	})
}
