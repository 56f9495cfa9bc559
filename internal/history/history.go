package history

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates a requested history record is missing.
var ErrNotFound = errors.New("history entry not found")

// Entry is one completed calculation. Entries are append-only: they are
// created once per equals evaluation and never mutated, and removed only by
// an explicit clear action.
type Entry struct {
	ID         string
	SessionID  string
	Expression string
	Result     float64
	CreatedAt  time.Time
}

// Store persists calculation history records.
type Store interface {
	AppendEntry(ctx context.Context, entry Entry) error
	ListEntries(ctx context.Context, sessionID string, limit int) ([]Entry, error)
	ClearEntries(ctx context.Context, sessionID string) (int64, error)
}
