package referral

import (
	"context"
	"sync"
)

// Memory keeps the referral map in process memory. Entries are lost on
// restart, matching the simplest deployment of the bot.
type Memory struct {
	mu      sync.Mutex
	entries map[int64]string
}

// NewMemory creates an empty in-memory referral store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[int64]string)}
}

// Set records who referred the visitor, overwriting any previous entry.
func (m *Memory) Set(ctx context.Context, visitorID int64, referrerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[visitorID] = referrerID
	return nil
}

// Get returns the referrer for the visitor, or empty when none is recorded.
func (m *Memory) Get(ctx context.Context, visitorID int64) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[visitorID], nil
}

// Delete removes the entry for the visitor.
func (m *Memory) Delete(ctx context.Context, visitorID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, visitorID)
	return nil
}
