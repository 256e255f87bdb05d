package referral

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// FileStore persists the referral map as a single JSON object so pending
// referrals survive a restart. The file holds visitor ID -> referrer ID.
type FileStore struct {
	path string

	mu      sync.Mutex
	entries map[string]string
}

// NewFileStore loads the referral map at path, starting empty when the file
// does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, entries: make(map[string]string)}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read referral map: %w", err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return nil, fmt.Errorf("decode referral map: %w", err)
	}
	return s, nil
}

// Set records who referred the visitor and flushes the map to disk.
func (s *FileStore) Set(ctx context.Context, visitorID int64, referrerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key(visitorID)] = referrerID
	return s.flush()
}

// Get returns the referrer for the visitor, or empty when none is recorded.
func (s *FileStore) Get(ctx context.Context, visitorID int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key(visitorID)], nil
}

// Delete removes the entry for the visitor and flushes the map to disk.
func (s *FileStore) Delete(ctx context.Context, visitorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key(visitorID)]; !ok {
		return nil
	}
	delete(s.entries, key(visitorID))
	return s.flush()
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode referral map: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write referral map: %w", err)
	}
	return nil
}

func key(visitorID int64) string {
	return strconv.FormatInt(visitorID, 10)
}
