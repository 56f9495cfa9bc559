package seed

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/louisbranch/reckon.space/internal/engine"
	"github.com/louisbranch/reckon.space/internal/history"
	"github.com/louisbranch/reckon.space/internal/id"
	"github.com/louisbranch/reckon.space/internal/keymap"
)

//go:embed tapes/*.lua
var defaultTapes embed.FS

// Runner replays tapes through the calculator and records every completed
// calculation to a history store.
type Runner struct {
	recorder *history.Recorder
}

// NewRunner creates a tape runner backed by the given store.
func NewRunner(store history.Store) *Runner {
	return &Runner{recorder: history.NewRecorder(store)}
}

// Replay runs one tape under a fresh session and returns how many
// calculations it recorded. Unknown keys fail the tape.
func (r *Runner) Replay(ctx context.Context, tape *Tape) (int, error) {
	if tape == nil {
		return 0, fmt.Errorf("tape is nil")
	}
	sessionID, err := id.New()
	if err != nil {
		return 0, fmt.Errorf("generate session id: %w", err)
	}

	state := engine.Initial()
	recorded := 0
	for _, key := range tape.Keys {
		ev, err := keymap.Resolve(key)
		if err != nil {
			return recorded, fmt.Errorf("tape %q: %w", tape.Name, err)
		}
		var calc *engine.Calculation
		state, calc = engine.Apply(state, ev)
		if calc == nil {
			continue
		}
		if err := r.recorder.Record(ctx, sessionID, *calc); err != nil {
			return recorded, fmt.Errorf("tape %q: record: %w", tape.Name, err)
		}
		recorded++
	}
	return recorded, nil
}

// ReplayDefaults runs every embedded tape.
func (r *Runner) ReplayDefaults(ctx context.Context) (int, error) {
	tapes, err := loadEmbeddedTapes()
	if err != nil {
		return 0, err
	}
	return r.replayAll(ctx, tapes)
}

// ReplayDir loads every *.lua tape in dir and runs them in name order.
func (r *Runner) ReplayDir(ctx context.Context, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read tapes dir: %w", err)
	}
	var tapes []*Tape
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		tape, err := LoadTapeFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return 0, err
		}
		tapes = append(tapes, tape)
	}
	return r.replayAll(ctx, tapes)
}

func (r *Runner) replayAll(ctx context.Context, tapes []*Tape) (int, error) {
	total := 0
	for _, tape := range tapes {
		recorded, err := r.Replay(ctx, tape)
		total += recorded
		if err != nil {
			return total, err
		}
		log.Printf("seeded tape %q: %d calculations", tape.Name, recorded)
	}
	return total, nil
}

func loadEmbeddedTapes() ([]*Tape, error) {
	names, err := fs.Glob(defaultTapes, "tapes/*.lua")
	if err != nil {
		return nil, fmt.Errorf("glob embedded tapes: %w", err)
	}
	sort.Strings(names)
	var tapes []*Tape
	for _, name := range names {
		src, err := defaultTapes.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read embedded tape %q: %w", name, err)
		}
		tape, err := LoadTape(name, src)
		if err != nil {
			return nil, err
		}
		tapes = append(tapes, tape)
	}
	return tapes, nil
}
