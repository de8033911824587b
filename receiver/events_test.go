package receiver

import (
	"errors"
	"testing"

	"github.com/garrettladley/linebot/content"
	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

const batch = `[
	{
		"from": "u206d25c2ea6bd87c17655609a1c37cb8",
		"fromChannel": 1341301815,
		"to": ["u0cc15697597f61dd8b01cea8b027050e"],
		"toChannel": 1441301333,
		"eventType": "138311609000106303",
		"id": "ABCDEF-12345678901",
		"content": {
			"id": "325708",
			"createdTime": 1332394961610,
			"from": "uff2aec188e58752ee1fb0f9507c6529a",
			"to": ["u0cc15697597f61dd8b01cea8b027050e"],
			"toType": 1,
			"contentType": 1,
			"contentMetadata": null,
			"text": "Hello, BOT API Server!",
			"location": null
		}
	},
	{
		"from": "u206d25c2ea6bd87c17655609a1c37cb8",
		"fromChannel": 1341301815,
		"to": ["u0cc15697597f61dd8b01cea8b027050e"],
		"toChannel": 1441301333,
		"eventType": "138311609100106403",
		"id": "ABCDEF-12345678902",
		"content": {
			"params": ["u0f3bfc598b061eba02183bfc5280886a", null, null],
			"revision": 2469,
			"opType": 4
		}
	}
]`

func parseBatch(t *testing.T) []Event {
	t.Helper()

	var results []go_json.RawMessage
	if err := go_json.Unmarshal([]byte(batch), &results); err != nil {
		t.Fatalf("failed to decode batch: %v", err)
	}
	events, err := ParseEvents(results)
	if err != nil {
		t.Fatalf("ParseEvents() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}
	return events
}

func TestParseEventsMessage(t *testing.T) {
	t.Parallel()

	e := parseBatch(t)[0]
	if !e.IsMessage() || e.IsOperation() {
		t.Fatalf("event type = %s, want message", e.EventType)
	}
	if e.ID != "ABCDEF-12345678901" || e.FromChannel != 1341301815 {
		t.Errorf("envelope = %+v", e)
	}

	msg, err := e.Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	if msg.From != "uff2aec188e58752ee1fb0f9507c6529a" || msg.ContentType != content.TypeText {
		t.Errorf("message = %+v", msg)
	}

	payload, err := msg.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	txt, ok := payload.(*content.Text)
	if !ok {
		t.Fatalf("Payload() = %T, want *content.Text", payload)
	}
	if txt.Text() != "Hello, BOT API Server!" {
		t.Errorf("Text() = %q", txt.Text())
	}

	if _, err := e.Operation(); !errors.Is(err, ErrNotOperation) {
		t.Errorf("Operation() error = %v, want ErrNotOperation", err)
	}
}

func TestParseEventsOperation(t *testing.T) {
	t.Parallel()

	e := parseBatch(t)[1]
	op, err := e.Operation()
	if err != nil {
		t.Fatalf("Operation() error = %v", err)
	}

	if op.OpType != OperationAddedAsFriend {
		t.Errorf("OpType = %v, want %v", op.OpType, OperationAddedAsFriend)
	}
	if op.Revision != 2469 {
		t.Errorf("Revision = %d", op.Revision)
	}
	if got := op.MID(); got != "u0f3bfc598b061eba02183bfc5280886a" {
		t.Errorf("MID() = %q", got)
	}

	if _, err := e.Message(); !errors.Is(err, ErrNotMessage) {
		t.Errorf("Message() error = %v, want ErrNotMessage", err)
	}
}

func TestParseEventsLocationMessage(t *testing.T) {
	t.Parallel()

	raw := go_json.RawMessage(`{
		"eventType": "138311609000106303",
		"content": {
			"contentType": 7,
			"toType": 1,
			"text": "Convention center",
			"location": {"title": "Convention center", "latitude": 35.6, "longitude": 139.7}
		}
	}`)

	events, err := ParseEvents([]go_json.RawMessage{raw})
	if err != nil {
		t.Fatalf("ParseEvents() error = %v", err)
	}
	msg, err := events[0].Message()
	if err != nil {
		t.Fatalf("Message() error = %v", err)
	}
	payload, err := msg.Payload()
	if err != nil {
		t.Fatalf("Payload() error = %v", err)
	}
	loc, ok := payload.(*content.Location)
	if !ok {
		t.Fatalf("Payload() = %T, want *content.Location", payload)
	}
	want := content.Place{Title: "Convention center", Latitude: 35.6, Longitude: 139.7}
	if diff := cmp.Diff(want, loc.Place()); diff != "" {
		t.Errorf("Place() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEventsMalformed(t *testing.T) {
	t.Parallel()

	_, err := ParseEvents([]go_json.RawMessage{
		go_json.RawMessage(`{"id":"1"}`),
		go_json.RawMessage(`"just a string"`),
	})
	if err == nil {
		t.Error("ParseEvents() expected error for non-object entry")
	}
}
