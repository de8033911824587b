package handler

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/garrettladley/linebot/api"
	"github.com/garrettladley/linebot/event"
	"github.com/garrettladley/linebot/internal/storage"
)

type fakeEventLog struct {
	mu      sync.Mutex
	records []storage.EventRecord
	err     error
}

func (f *fakeEventLog) Record(_ context.Context, rec storage.EventRecord) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, r := range f.records {
		if r.EventID == rec.EventID {
			return false, nil
		}
	}
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, rec)
	return true, nil
}

func (f *fakeEventLog) Recent(_ context.Context, limit int) ([]storage.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := slices.Clone(f.records)
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeEventLog) Close() error { return nil }

func (f *fakeEventLog) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeEventLog) snapshot() []storage.EventRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.records)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []event.Event
	err  error
}

func (f *fakeSender) Post(_ context.Context, e event.Event) (*api.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, e)
	return &api.SendResult{MessageID: "1460826285060", Timestamp: time.Now().UnixMilli(), Version: 1}, nil
}

func (f *fakeSender) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeSender) events() []event.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.sent)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

var errBoom = errors.New("boom")
