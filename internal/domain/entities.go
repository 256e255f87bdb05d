package domain

// UsernameUnavailable is stored when a Telegram user has no public username.
const UsernameUnavailable = "Not Available"

// NoReferrer is the sentinel written to the contact book when a user was not
// referred by anyone.
const NoReferrer = "None"

// Contact is one verified user in the contact book. Records are created once
// at verification and never updated or deleted by the bot.
type Contact struct {
	Name     string
	Phone    string
	Username string // "@handle" or UsernameUnavailable
	ChatID   int64
	Day      string // weekday of verification in the bot timezone, e.g. "Monday"
	Time     string // clock time of verification, e.g. "07:45 PM"
	Referrer string // chat ID of whoever's link was used, empty when none
}

// SessionMode changes how the next free-text message from a sender is
// interpreted. A mode is armed by an admin menu action and consumed by
// exactly one message.
type SessionMode int

const (
	ModeNone SessionMode = iota
	ModeAwaitingBroadcast
	ModeAwaitingSearch
)

func (m SessionMode) String() string {
	switch m {
	case ModeAwaitingBroadcast:
		return "awaiting_broadcast"
	case ModeAwaitingSearch:
		return "awaiting_search"
	default:
		return "none"
	}
}
