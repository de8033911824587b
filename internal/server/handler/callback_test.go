package handler

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/garrettladley/linebot/content"
	"github.com/garrettladley/linebot/event"
	"github.com/garrettladley/linebot/internal/storage"
	"github.com/garrettladley/linebot/receiver"
	go_json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
)

const testSecret = "testsecret"

const textAndOperationBatch = `{"result":[
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
]}`

const stickerBatch = `{"result":[
	{
		"from": "u206d25c2ea6bd87c17655609a1c37cb8",
		"fromChannel": 1341301815,
		"to": ["u0cc15697597f61dd8b01cea8b027050e"],
		"toChannel": 1441301333,
		"eventType": "138311609000106303",
		"id": "STICKER-1",
		"content": {
			"id": "325709",
			"from": "uff2aec188e58752ee1fb0f9507c6529a",
			"toType": 1,
			"contentType": 8,
			"contentMetadata": {"STKID": "3", "STKPKGID": "332", "STKVER": "100"}
		}
	}
]}`

const imageBatch = `{"result":[
	{
		"eventType": "138311609000106303",
		"id": "IMAGE-1",
		"content": {"id": "325710", "from": "uff2aec188e58752ee1fb0f9507c6529a", "toType": 1, "contentType": 2}
	}
]}`

type callbackHarness struct {
	handler http.Handler
	dedup   *storage.MemoryDeduper
	log     *fakeEventLog
	sender  *fakeSender
}

func newHarness(t *testing.T, sender *fakeSender) *callbackHarness {
	t.Helper()

	dedup := storage.NewMemoryDeduper()
	t.Cleanup(func() { _ = dedup.Close() })

	h := &callbackHarness{dedup: dedup, log: &fakeEventLog{}, sender: sender}
	cfg := CallbackConfig{Deduper: dedup, EventLog: h.log}
	if sender != nil {
		cfg.Sender = sender
	}
	h.handler = receiver.Middleware(testSecret)(http.HandlerFunc(NewCallback(cfg).HandleCallback))
	return h
}

func (h *callbackHarness) deliver(t *testing.T, body string) (int, callbackResponse) {
	t.Helper()

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/callback", bytes.NewBufferString(body))
	req.Header.Set("X-Line-ChannelSignature", receiver.Sign(testSecret, []byte(body)))
	rec := httptest.NewRecorder()

	h.handler.ServeHTTP(rec, req)

	var resp callbackResponse
	if rec.Code == http.StatusOK {
		if err := go_json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code, resp
}

func TestCallback_RecordsAndEchoes(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	code, resp := h.deliver(t, textAndOperationBatch)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if diff := cmp.Diff(callbackResponse{Received: 2, Processed: 2}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}

	records := h.log.snapshot()
	if len(records) != 2 {
		t.Fatalf("recorded %d events, want 2", len(records))
	}
	if records[0].EventID != "ABCDEF-12345678901" || records[0].From != "uff2aec188e58752ee1fb0f9507c6529a" || records[0].ContentType != int(content.TypeText) {
		t.Errorf("message record = %+v", records[0])
	}
	if records[1].EventID != "ABCDEF-12345678902" || records[1].From != "u0f3bfc598b061eba02183bfc5280886a" || records[1].OpType != int(receiver.OperationAddedAsFriend) {
		t.Errorf("operation record = %+v", records[1])
	}

	sent := h.sender.events()
	if len(sent) != 1 {
		t.Fatalf("sent %d events, want 1", len(sent))
	}
	single, ok := sent[0].(*event.Single)
	if !ok {
		t.Fatalf("sent %T, want *event.Single", sent[0])
	}
	if diff := cmp.Diff([]string{"uff2aec188e58752ee1fb0f9507c6529a"}, single.To()); diff != "" {
		t.Errorf("recipients mismatch (-want +got):\n%s", diff)
	}
	text, ok := single.Content().(*content.Text)
	if !ok {
		t.Fatalf("content %T, want *content.Text", single.Content())
	}
	if text.Text() != "Hello, BOT API Server!" {
		t.Errorf("echo text = %q", text.Text())
	}
}

func TestCallback_Redelivery(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	if code, _ := h.deliver(t, textAndOperationBatch); code != http.StatusOK {
		t.Fatalf("first delivery status = %d", code)
	}
	code, resp := h.deliver(t, textAndOperationBatch)
	if code != http.StatusOK {
		t.Fatalf("second delivery status = %d", code)
	}
	if diff := cmp.Diff(callbackResponse{Received: 2, Duplicates: 2}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
	if n := len(h.sender.events()); n != 1 {
		t.Errorf("sent %d events after redelivery, want 1", n)
	}
	if n := len(h.log.snapshot()); n != 2 {
		t.Errorf("recorded %d events after redelivery, want 2", n)
	}
}

func TestCallback_EchoDisabled(t *testing.T) {
	t.Parallel()

	h := newHarness(t, nil)

	code, resp := h.deliver(t, textAndOperationBatch)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Processed != 2 {
		t.Errorf("processed = %d, want 2", resp.Processed)
	}
}

func TestCallback_EchoFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{err: errBoom})

	code, resp := h.deliver(t, textAndOperationBatch)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if diff := cmp.Diff(callbackResponse{Received: 2, Processed: 1, Failed: 1}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestCallback_EventLogFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})
	h.log.setErr(errBoom)

	code, resp := h.deliver(t, textAndOperationBatch)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Failed != 2 {
		t.Errorf("failed = %d, want 2", resp.Failed)
	}
	if n := len(h.sender.events()); n != 0 {
		t.Errorf("sent %d events, want 0", n)
	}
}

func TestCallback_RedeliveryAfterEventLogFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})
	h.log.setErr(errBoom)

	if _, resp := h.deliver(t, textAndOperationBatch); resp.Failed != 2 {
		t.Fatalf("failed = %d, want 2", resp.Failed)
	}

	h.log.setErr(nil)
	_, resp := h.deliver(t, textAndOperationBatch)
	if diff := cmp.Diff(callbackResponse{Received: 2, Processed: 2}, resp); diff != "" {
		t.Errorf("redelivery response mismatch (-want +got):\n%s", diff)
	}
	if n := len(h.log.snapshot()); n != 2 {
		t.Errorf("recorded %d events, want 2", n)
	}
	if n := len(h.sender.events()); n != 1 {
		t.Errorf("sent %d events, want 1", n)
	}
}

func TestCallback_RedeliveryAfterEchoFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{err: errBoom})

	if _, resp := h.deliver(t, textAndOperationBatch); resp.Failed != 1 {
		t.Fatalf("failed = %d, want 1", resp.Failed)
	}

	h.sender.setErr(nil)
	_, resp := h.deliver(t, textAndOperationBatch)
	if diff := cmp.Diff(callbackResponse{Received: 2, Processed: 1, Duplicates: 1}, resp); diff != "" {
		t.Errorf("redelivery response mismatch (-want +got):\n%s", diff)
	}
	if n := len(h.log.snapshot()); n != 2 {
		t.Errorf("recorded %d events, want 2", n)
	}
	if n := len(h.sender.events()); n != 1 {
		t.Errorf("sent %d events, want 1", n)
	}
}

func TestCallback_StickerEcho(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	if code, _ := h.deliver(t, stickerBatch); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}

	sent := h.sender.events()
	if len(sent) != 1 {
		t.Fatalf("sent %d events, want 1", len(sent))
	}
	sticker, ok := sent[0].(*event.Single).Content().(*content.Sticker)
	if !ok {
		t.Fatalf("content %T, want *content.Sticker", sent[0].(*event.Single).Content())
	}
	want := content.StickerMetadata{STKID: "3", STKPKGID: "332", STKVER: "100"}
	if diff := cmp.Diff(want, sticker.Metadata()); diff != "" {
		t.Errorf("sticker mismatch (-want +got):\n%s", diff)
	}
}

func TestCallback_MediaNotEchoed(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	code, resp := h.deliver(t, imageBatch)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if resp.Processed != 1 {
		t.Errorf("processed = %d, want 1", resp.Processed)
	}
	if n := len(h.sender.events()); n != 0 {
		t.Errorf("sent %d events, want 0", n)
	}
}

func TestCallback_MalformedBatch(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	code, resp := h.deliver(t, `{"result":[1,2]}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if diff := cmp.Diff(callbackResponse{Received: 2, Failed: 2}, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestCallback_RejectedBeforeHandler(t *testing.T) {
	t.Parallel()

	h := newHarness(t, &fakeSender{})

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/callback", bytes.NewBufferString(textAndOperationBatch))
	req.Header.Set("X-Line-ChannelSignature", "bogus")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != receiver.StatusRejected {
		t.Fatalf("status = %d, want %d", rec.Code, receiver.StatusRejected)
	}
	if n := len(h.log.snapshot()); n != 0 {
		t.Errorf("recorded %d events, want 0", n)
	}
}

func TestCallback_WithoutMiddleware(t *testing.T) {
	t.Parallel()

	dedup := storage.NewMemoryDeduper()
	t.Cleanup(func() { _ = dedup.Close() })
	cb := NewCallback(CallbackConfig{Deduper: dedup, EventLog: &fakeEventLog{}})

	req := httptest.NewRequestWithContext(t.Context(), http.MethodPost, "/callback", bytes.NewBufferString(textAndOperationBatch))
	rec := httptest.NewRecorder()
	cb.HandleCallback(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
