package history

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/reckon.space/internal/engine"
	"github.com/louisbranch/reckon.space/internal/id"
)

// Recorder appends completed calculations to a history store. The engine
// stays free of I/O: collaborators hand each Calculation to a Recorder, which
// owns timestamps and identifier generation.
type Recorder struct {
	store Store
	clock func() time.Time
	newID func() (string, error)
}

// NewRecorder creates a history recorder. A nil store yields a no-op recorder.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store, clock: time.Now, newID: id.New}
}

// Record persists one completed calculation. It is a no-op when the recorder
// or its store is nil.
func (r *Recorder) Record(ctx context.Context, sessionID string, calc engine.Calculation) error {
	if r == nil || r.store == nil {
		return nil
	}
	entryID, err := r.newID()
	if err != nil {
		return fmt.Errorf("generate entry id: %w", err)
	}
	clock := r.clock
	if clock == nil {
		clock = time.Now
	}
	return r.store.AppendEntry(ctx, Entry{
		ID:         entryID,
		SessionID:  sessionID,
		Expression: calc.Expression,
		Result:     calc.Result,
		CreatedAt:  clock().UTC(),
	})
}
