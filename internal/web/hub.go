package web

import (
	"encoding/json"
	"sync"

	"golang.org/x/net/websocket"
)

// displayFrame is the JSON frame pushed to websocket mirrors after every
// applied key.
type displayFrame struct {
	SessionID string `json:"session_id"`
	Display   string `json:"display"`
	Errored   bool   `json:"errored,omitempty"`
}

type wsPeer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func newWSPeer(conn *websocket.Conn) *wsPeer {
	return &wsPeer{encoder: json.NewEncoder(conn)}
}

func (p *wsPeer) writeFrame(frame displayFrame) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(frame)
}

// mirrorHub fans display updates out to websocket subscribers, grouped by
// calculator session.
type mirrorHub struct {
	mu       sync.Mutex
	sessions map[string]map[*wsPeer]struct{}
}

func newMirrorHub() *mirrorHub {
	return &mirrorHub{sessions: make(map[string]map[*wsPeer]struct{})}
}

func (h *mirrorHub) join(sessionID string, peer *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.sessions[sessionID]
	if !ok {
		peers = make(map[*wsPeer]struct{})
		h.sessions[sessionID] = peers
	}
	peers[peer] = struct{}{}
}

func (h *mirrorHub) leave(sessionID string, peer *wsPeer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	delete(peers, peer)
	if len(peers) == 0 {
		delete(h.sessions, sessionID)
	}
}

func (h *mirrorHub) broadcast(frame displayFrame) {
	h.mu.Lock()
	targets := make([]*wsPeer, 0, len(h.sessions[frame.SessionID]))
	for peer := range h.sessions[frame.SessionID] {
		targets = append(targets, peer)
	}
	h.mu.Unlock()

	for _, peer := range targets {
		// A dead peer is cleaned up when its read loop exits.
		_ = peer.writeFrame(frame)
	}
}

func (h *mirrorHub) subscriberCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}
