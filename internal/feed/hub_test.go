package feed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/decoynet/decoy/internal/domain"
)

func TestHub_BroadcastWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	// Must not panic or block.
	hub.Broadcast(Event{Type: EventTurn, SessionID: "s1"})
	if hub.Subscribers() != 0 {
		t.Errorf("Subscribers = %d", hub.Subscribers())
	}
}

func TestHub_DeliversToSubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewHandler(hub, true))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

	waitForSubscribers(t, hub, 1)

	hub.Broadcast(Event{
		Type:      EventEscalation,
		SessionID: "s1",
		RiskTier:  domain.TierLikelyScam,
		Turn:      4,
		Detail:    "tier raised",
	})

	_, payload, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if event.Type != EventEscalation || event.SessionID != "s1" || event.RiskTier != domain.TierLikelyScam {
		t.Errorf("Event = %+v", event)
	}
	if event.At.IsZero() {
		t.Error("Broadcast should stamp the event time")
	}
}

func TestHub_EvictsClosedSubscriber(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewHandler(hub, true))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	waitForSubscribers(t, hub, 1)
	_ = conn.Close(websocket.StatusNormalClosure, "leaving")
	waitForSubscribers(t, hub, 0)
}

func waitForSubscribers(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Subscribers() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Subscribers never reached %d, at %d", want, hub.Subscribers())
}
