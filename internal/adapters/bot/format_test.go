package bot

import (
	"strings"
	"testing"

	"contact-saver-bot/internal/domain"
)

func TestReferralLinkShape(t *testing.T) {
	link := referralLink("contact_saver_bot", 7)
	if link != "https://t.me/contact_saver_bot?start=ref_7" {
		t.Fatalf("unexpected link: %q", link)
	}
}

func TestWelcomeMessageEmbedsReferrer(t *testing.T) {
	if msg := welcomeMessage("42"); !strings.Contains(msg, "`42`") {
		t.Fatalf("expected referrer in welcome, got %q", msg)
	}
	if msg := welcomeMessage(""); strings.Contains(msg, "Invite by user ID") {
		t.Fatalf("expected no invite line without referrer, got %q", msg)
	}
}

func TestAdminContactNotificationUsesSentinel(t *testing.T) {
	c := domain.Contact{Name: "Alice", Phone: "+1", Username: "@alice", ChatID: 42, Day: "Monday", Time: "09:00 AM"}
	msg := adminContactNotification(c)
	if !strings.Contains(msg, "Referred by: "+domain.NoReferrer) {
		t.Fatalf("expected None sentinel, got %q", msg)
	}

	c.Referrer = "7"
	if msg := adminContactNotification(c); !strings.Contains(msg, "Referred by: 7") {
		t.Fatalf("expected referrer ID, got %q", msg)
	}
}

func TestReferrerNotificationAdminHandleOptional(t *testing.T) {
	c := domain.Contact{Name: "Alice", Phone: "+1", Username: "@alice", ChatID: 42}
	if msg := referrerNotification(c, ""); strings.Contains(msg, "ADMIN") {
		t.Fatalf("expected no admin plug without handle, got %q", msg)
	}
	if msg := referrerNotification(c, "@boss"); !strings.Contains(msg, "@boss") {
		t.Fatalf("expected admin handle, got %q", msg)
	}
}

func TestContactEntryNumbersRecords(t *testing.T) {
	c := domain.Contact{Name: "Alice", Phone: "+1", Username: "@alice", ChatID: 42, Day: "Monday", Time: "09:00 AM"}
	entry := contactEntry(3, c)
	if !strings.HasPrefix(entry, "3) *Alice*") {
		t.Fatalf("unexpected entry prefix: %q", entry)
	}
	if !strings.HasSuffix(entry, "\n\n") {
		t.Fatal("entries must be separated by a blank line")
	}
}
