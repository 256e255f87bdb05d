package bot

import (
	"testing"

	"contact-saver-bot/internal/domain"
)

func TestSessionModeConsumeClearsState(t *testing.T) {
	modes := newSessionModes()
	modes.arm(7, domain.ModeAwaitingSearch)

	if got := modes.consume(7); got != domain.ModeAwaitingSearch {
		t.Fatalf("expected awaiting-search, got %v", got)
	}
	if got := modes.consume(7); got != domain.ModeNone {
		t.Fatalf("expected none after consume, got %v", got)
	}
}

func TestSessionModeArmOverwrites(t *testing.T) {
	modes := newSessionModes()
	modes.arm(7, domain.ModeAwaitingSearch)
	modes.arm(7, domain.ModeAwaitingBroadcast)

	if got := modes.consume(7); got != domain.ModeAwaitingBroadcast {
		t.Fatalf("expected awaiting-broadcast, got %v", got)
	}
}

func TestSessionModeIsPerSender(t *testing.T) {
	modes := newSessionModes()
	modes.arm(7, domain.ModeAwaitingBroadcast)

	if got := modes.consume(8); got != domain.ModeNone {
		t.Fatalf("expected none for other sender, got %v", got)
	}
	if got := modes.consume(7); got != domain.ModeAwaitingBroadcast {
		t.Fatalf("expected armed mode intact for original sender, got %v", got)
	}
}
