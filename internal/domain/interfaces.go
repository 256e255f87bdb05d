package domain

import "context"

// ContactRepo manages the durable contact book and its in-memory view.
// Append must update both so that a subsequent Exists or All observes the
// new record.
type ContactRepo interface {
	Append(contact Contact) error
	Exists(chatID int64) bool
	All() []Contact
	Count() int
	// Path points at the durable file backing the book, used for export.
	Path() string
}

// ReferralStore maps a visitor who opened a referral link onto the referrer
// identity, until the visitor verifies. Set overwrites any previous entry
// for the visitor. Get returns an empty referrer when no entry exists.
type ReferralStore interface {
	Set(ctx context.Context, visitorID int64, referrerID string) error
	Get(ctx context.Context, visitorID int64) (string, error)
	Delete(ctx context.Context, visitorID int64) error
}
