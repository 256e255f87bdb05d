package bot

import (
	"sync"

	"contact-saver-bot/internal/domain"
)

// sessionModes tracks the armed one-shot mode per sender. Arming overwrites
// any previous mode; consuming reads and clears it in one step, so a mode
// never outlives the next free-text message.
type sessionModes struct {
	mu    sync.Mutex
	modes map[int64]domain.SessionMode
}

func newSessionModes() *sessionModes {
	return &sessionModes{modes: make(map[int64]domain.SessionMode)}
}

func (s *sessionModes) arm(senderID int64, mode domain.SessionMode) {
	s.mu.Lock()
	s.modes[senderID] = mode
	s.mu.Unlock()
}

func (s *sessionModes) consume(senderID int64) domain.SessionMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	mode, ok := s.modes[senderID]
	if !ok {
		return domain.ModeNone
	}
	delete(s.modes, senderID)
	return mode
}
