// Package session holds one calculator state per browser session.
//
// Each session has exactly one writer at a time: Apply serializes transitions
// through a per-session mutex, while any number of readers may snapshot the
// state. Idle sessions are swept after a configurable TTL.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/louisbranch/reckon.space/internal/engine"
	"github.com/louisbranch/reckon.space/internal/id"
)

// Manager tracks live calculator sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	clock    func() time.Time
}

type session struct {
	mu       sync.Mutex
	state    engine.State
	lastUsed time.Time
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		clock:    time.Now,
	}
}

// Create starts a fresh session and returns its identifier.
func (m *Manager) Create() (string, error) {
	sessionID, err := id.New()
	if err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = &session{
		state:    engine.Initial(),
		lastUsed: m.clock(),
	}
	return sessionID, nil
}

// State snapshots the current state of a session. Unknown sessions report a
// fresh initial state so expired cookies degrade gracefully.
func (m *Manager) State(sessionID string) engine.State {
	m.mu.RLock()
	sess := m.sessions[sessionID]
	m.mu.RUnlock()
	if sess == nil {
		return engine.Initial()
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state
}

// Apply advances one session by one event, reviving the session if it was
// swept. It returns the new state and any completed calculation.
func (m *Manager) Apply(sessionID string, ev engine.Event) (engine.State, *engine.Calculation) {
	sess := m.acquire(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	state, calc := engine.Apply(sess.state, ev)
	sess.state = state
	sess.lastUsed = m.clock()
	return state, calc
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and reports how many
// were removed. Dropped sessions revive as initial state on next use.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	if maxIdle <= 0 {
		return 0
	}
	cutoff := m.clock().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for sessionID, sess := range m.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(m.sessions, sessionID)
			removed++
		}
	}
	return removed
}

func (m *Manager) acquire(sessionID string) *session {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess := m.sessions[sessionID]
	if sess == nil {
		sess = &session{state: engine.Initial(), lastUsed: m.clock()}
		m.sessions[sessionID] = sess
	}
	return sess
}
