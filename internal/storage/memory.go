package storage

import (
	"context"
	"sync"
	"time"
)

var _ Deduper = (*MemoryDeduper)(nil)

const cleanupInterval = time.Minute

type MemoryDeduper struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	now       func() time.Time
	done      chan struct{}
	closeOnce sync.Once
}

func NewMemoryDeduper() *MemoryDeduper {
	m := &MemoryDeduper{
		seen: make(map[string]time.Time),
		now:  time.Now,
		done: make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryDeduper) MarkSeen(_ context.Context, id string, ttl time.Duration) (bool, error) {
	if id == "" {
		return false, ErrEmptyEventID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if expiresAt, ok := m.seen[id]; ok && now.Before(expiresAt) {
		return false, nil
	}
	m.seen[id] = now.Add(ttl)
	return true, nil
}

func (m *MemoryDeduper) Forget(_ context.Context, id string) error {
	if id == "" {
		return ErrEmptyEventID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.seen, id)
	return nil
}

func (m *MemoryDeduper) Ping(context.Context) error {
	return nil
}

func (m *MemoryDeduper) Close() error {
	m.closeOnce.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryDeduper) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictExpired()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryDeduper) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, expiresAt := range m.seen {
		if !now.Before(expiresAt) {
			delete(m.seen, id)
		}
	}
}
