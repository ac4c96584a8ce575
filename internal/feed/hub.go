// Package feed streams session lifecycle events to connected operator
// dashboards over WebSocket.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/decoynet/decoy/internal/domain"
)

const writeTimeout = 2 * time.Second

// EventType labels feed events.
type EventType string

const (
	EventTurn       EventType = "turn"
	EventEscalation EventType = "escalation"
	EventResolved   EventType = "resolved"
	EventExpired    EventType = "expired"
)

// Event is one session lifecycle notification.
type Event struct {
	Type      EventType       `json:"type"`
	SessionID string          `json:"session_id"`
	RiskTier  domain.RiskTier `json:"risk_tier"`
	Turn      int             `json:"turn"`
	Detail    string          `json:"detail,omitempty"`
	At        time.Time       `json:"at"`
}

// Hub manages active feed connections and broadcasts events to all of
// them. A slow or dead subscriber is dropped rather than allowed to stall
// the turn pipeline.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]struct{})}
}

// Register adds a subscriber connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	slog.Info("Feed subscriber connected", "subscribers", len(h.conns))
}

// Unregister removes a subscriber connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		slog.Info("Feed subscriber disconnected", "subscribers", len(h.conns))
	}
}

// Broadcast sends the event to every subscriber. Write failures evict the
// subscriber; the caller never blocks beyond the per-conn write timeout.
func (h *Hub) Broadcast(event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("Failed to marshal feed event", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, payload)
		cancel()
		if err != nil {
			_ = conn.Close(websocket.StatusNormalClosure, "write failed")
			delete(h.conns, conn)
		}
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
