package contacts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"contact-saver-bot/internal/domain"
)

// ErrAlreadyVerified is returned when a contact share arrives from a chat
// identity that is already in the book.
var ErrAlreadyVerified = errors.New("contact already verified")

// Service manages the verified contact collection.
type Service struct {
	repo      domain.ContactRepo
	referrals domain.ReferralStore
	loc       *time.Location
	now       func() time.Time
}

// NewService creates the contact service. Verification timestamps are
// rendered in loc.
func NewService(repo domain.ContactRepo, referrals domain.ReferralStore, loc *time.Location) *Service {
	return &Service{repo: repo, referrals: referrals, loc: loc, now: time.Now}
}

// Register builds a contact record from a shared contact card and appends it
// to the book. The referral map is consulted (but not cleared: the caller
// removes the entry after notifying the referrer). Registration of a known
// chat identity returns ErrAlreadyVerified and never duplicates a record.
func (s *Service) Register(ctx context.Context, chatID int64, firstName, phone, username string) (domain.Contact, error) {
	if s.repo.Exists(chatID) {
		return domain.Contact{}, ErrAlreadyVerified
	}

	// A lookup failure only costs the referral bonus, never the verification.
	referrer, _ := s.referrals.Get(ctx, chatID)

	now := s.now().In(s.loc)
	contact := domain.Contact{
		Name:     firstName,
		Phone:    phone,
		Username: normalizeUsername(username),
		ChatID:   chatID,
		Day:      now.Format("Monday"),
		Time:     now.Format("03:04 PM"),
		Referrer: referrer,
	}
	if contact.Name == "" {
		contact.Name = "Unknown"
	}

	if err := s.repo.Append(contact); err != nil {
		return domain.Contact{}, fmt.Errorf("save contact: %w", err)
	}
	return contact, nil
}

// IsVerified reports whether the chat identity already has a record.
func (s *Service) IsVerified(chatID int64) bool {
	return s.repo.Exists(chatID)
}

// All returns every saved contact.
func (s *Service) All() []domain.Contact {
	return s.repo.All()
}

// Count returns the number of saved contacts.
func (s *Service) Count() int {
	return s.repo.Count()
}

// StorePath points at the durable contact book for export.
func (s *Service) StorePath() string {
	return s.repo.Path()
}

// Search returns every contact matching the query: exact chat identity,
// phone substring, or case-insensitive username substring.
func (s *Service) Search(query string) []domain.Contact {
	q := NormalizeQuery(query)
	var matches []domain.Contact
	for _, c := range s.repo.All() {
		switch {
		case strconv.FormatInt(c.ChatID, 10) == q:
			matches = append(matches, c)
		case strings.Contains(c.Phone, q):
			matches = append(matches, c)
		case strings.Contains(strings.ToLower(stripAt(c.Username)), q):
			matches = append(matches, c)
		}
	}
	return matches
}

// NormalizeQuery lowercases the admin's query and drops a leading "@" so
// that usernames can be pasted as-is.
func NormalizeQuery(query string) string {
	return stripAt(strings.ToLower(strings.TrimSpace(query)))
}

func stripAt(s string) string {
	return strings.Replace(s, "@", "", 1)
}

func normalizeUsername(username string) string {
	if username == "" {
		return domain.UsernameUnavailable
	}
	return "@" + username
}
