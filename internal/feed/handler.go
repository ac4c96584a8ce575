package feed

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// Handler upgrades feed subscriptions. Authentication runs before this
// handler in the middleware chain.
type Handler struct {
	hub         *Hub
	development bool
}

// NewHandler creates the feed WebSocket handler.
func NewHandler(hub *Hub, development bool) *Handler {
	return &Handler{hub: hub, development: development}
}

// ServeHTTP upgrades the connection and parks it in the hub until the
// subscriber goes away. Subscribers only receive; any inbound frame except
// close is ignored.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	if h.development {
		opts.InsecureSkipVerify = true
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Warn("Feed upgrade failed", "error", err)
		return
	}

	h.hub.Register(conn)
	defer func() {
		h.hub.Unregister(conn)
		_ = conn.Close(websocket.StatusNormalClosure, "bye")
	}()

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}
