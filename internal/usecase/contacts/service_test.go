package contacts

import (
	"context"
	"errors"
	"testing"
	"time"

	"contact-saver-bot/internal/adapters/referral"
	"contact-saver-bot/internal/domain"
)

type fakeRepo struct {
	contacts  []domain.Contact
	appendErr error
}

func (r *fakeRepo) Append(c domain.Contact) error {
	if r.appendErr != nil {
		return r.appendErr
	}
	r.contacts = append(r.contacts, c)
	return nil
}

func (r *fakeRepo) Exists(chatID int64) bool {
	for _, c := range r.contacts {
		if c.ChatID == chatID {
			return true
		}
	}
	return false
}

func (r *fakeRepo) All() []domain.Contact {
	out := make([]domain.Contact, len(r.contacts))
	copy(out, r.contacts)
	return out
}

func (r *fakeRepo) Count() int { return len(r.contacts) }

func (r *fakeRepo) Path() string { return "contacts.csv" }

func newTestService(repo *fakeRepo, refs domain.ReferralStore) *Service {
	svc := NewService(repo, refs, time.UTC)
	svc.now = func() time.Time {
		return time.Date(2024, time.March, 4, 19, 45, 0, 0, time.UTC)
	}
	return svc
}

func TestRegisterBuildsRecord(t *testing.T) {
	repo := &fakeRepo{}
	refs := referral.NewMemory()
	if err := refs.Set(context.Background(), 42, "7"); err != nil {
		t.Fatalf("seed referral: %v", err)
	}
	svc := newTestService(repo, refs)

	contact, err := svc.Register(context.Background(), 42, "Alice", "+919876543210", "alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if contact.Username != "@alice" {
		t.Fatalf("expected @alice, got %q", contact.Username)
	}
	if contact.Day != "Monday" || contact.Time != "07:45 PM" {
		t.Fatalf("unexpected timestamp fields: %s %s", contact.Day, contact.Time)
	}
	if contact.Referrer != "7" {
		t.Fatalf("expected referrer 7, got %q", contact.Referrer)
	}

	// Register consults but never clears the referral map.
	ref, _ := refs.Get(context.Background(), 42)
	if ref != "7" {
		t.Fatalf("expected referral entry to remain, got %q", ref)
	}
}

func TestRegisterDefaults(t *testing.T) {
	svc := newTestService(&fakeRepo{}, referral.NewMemory())

	contact, err := svc.Register(context.Background(), 1, "", "+1555", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if contact.Name != "Unknown" {
		t.Fatalf("expected Unknown name, got %q", contact.Name)
	}
	if contact.Username != domain.UsernameUnavailable {
		t.Fatalf("expected unavailable username, got %q", contact.Username)
	}
	if contact.Referrer != "" {
		t.Fatalf("expected no referrer, got %q", contact.Referrer)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, referral.NewMemory())

	if _, err := svc.Register(context.Background(), 42, "Alice", "+1", "alice"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), 42, "Alice", "+1", "alice")
	if !errors.Is(err, ErrAlreadyVerified) {
		t.Fatalf("expected ErrAlreadyVerified, got %v", err)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected single record, got %d", repo.Count())
	}
}

func TestRegisterWrapsStoreError(t *testing.T) {
	repo := &fakeRepo{appendErr: errors.New("disk full")}
	svc := newTestService(repo, referral.NewMemory())

	if _, err := svc.Register(context.Background(), 42, "Alice", "+1", "alice"); err == nil {
		t.Fatal("expected append error to propagate")
	}
}

func TestSearchMatchesPhoneSubstring(t *testing.T) {
	repo := &fakeRepo{contacts: []domain.Contact{
		{Name: "Alice", Phone: "+919876543210", Username: "@alice", ChatID: 42},
		{Name: "Bob", Phone: "+15550001111", Username: "@bob", ChatID: 43},
	}}
	svc := newTestService(repo, referral.NewMemory())

	matches := svc.Search("987")
	if len(matches) != 1 || matches[0].Name != "Alice" {
		t.Fatalf("expected Alice only, got %+v", matches)
	}
}

func TestSearchMatchesChatIDAndUsername(t *testing.T) {
	repo := &fakeRepo{contacts: []domain.Contact{
		{Name: "Alice", Phone: "+1", Username: "@AliceWonder", ChatID: 42},
		{Name: "Bob", Phone: "+2", Username: domain.UsernameUnavailable, ChatID: 43},
	}}
	svc := newTestService(repo, referral.NewMemory())

	if matches := svc.Search("42"); len(matches) != 1 || matches[0].ChatID != 42 {
		t.Fatalf("chat ID search failed: %+v", matches)
	}
	if matches := svc.Search("@alicew"); len(matches) != 1 || matches[0].ChatID != 42 {
		t.Fatalf("username search failed: %+v", matches)
	}
	if matches := svc.Search("nosuch"); len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}

func TestNormalizeQuery(t *testing.T) {
	if got := NormalizeQuery(" @FooBar "); got != "foobar" {
		t.Fatalf("expected foobar, got %q", got)
	}
}
