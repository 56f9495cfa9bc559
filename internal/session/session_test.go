package session

import (
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/reckon.space/internal/engine"
)

func TestCreateStartsAtInitialState(t *testing.T) {
	manager := NewManager()
	sessionID, err := manager.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := manager.State(sessionID); got != engine.Initial() {
		t.Fatalf("state = %+v, want initial", got)
	}
}

func TestApplyAdvancesOnlyOneSession(t *testing.T) {
	manager := NewManager()
	first, err := manager.Create()
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := manager.Create()
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	manager.Apply(first, engine.Digit(7))
	if got := manager.State(first).Display; got != "7" {
		t.Fatalf("first display = %q, want %q", got, "7")
	}
	if got := manager.State(second).Display; got != "0" {
		t.Fatalf("second display = %q, want %q", got, "0")
	}
}

func TestApplyRevivesUnknownSession(t *testing.T) {
	manager := NewManager()
	state, _ := manager.Apply("missing", engine.Digit(4))
	if state.Display != "4" {
		t.Fatalf("display = %q, want %q", state.Display, "4")
	}
	if manager.Len() != 1 {
		t.Fatalf("sessions = %d, want 1", manager.Len())
	}
}

func TestSweepDropsIdleSessions(t *testing.T) {
	manager := NewManager()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	manager.clock = func() time.Time { return now }

	sessionID, err := manager.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	manager.Apply(sessionID, engine.Digit(5))

	now = now.Add(2 * time.Hour)
	if removed := manager.Sweep(time.Hour); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got := manager.State(sessionID); got != engine.Initial() {
		t.Fatalf("state after sweep = %+v, want initial", got)
	}
}

func TestSweepKeepsActiveSessions(t *testing.T) {
	manager := NewManager()
	sessionID, err := manager.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	manager.Apply(sessionID, engine.Digit(5))
	if removed := manager.Sweep(time.Hour); removed != 0 {
		t.Fatalf("removed = %d, want 0", removed)
	}
}

func TestConcurrentApplySerializesPerSession(t *testing.T) {
	manager := NewManager()
	sessionID, err := manager.Create()
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.Apply(sessionID, engine.Digit(1))
		}()
	}
	wg.Wait()

	// Fifty appended digits collapse to the operand cap.
	if got := manager.State(sessionID).Display; len(got) > 15 {
		t.Fatalf("display = %q, longer than operand cap", got)
	}
}
