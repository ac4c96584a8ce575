package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/decoynet/decoy/internal/domain"
)

// closedReply is the fixed response for messages arriving after a session
// reached a terminal state.
const closedReply = "This conversation has ended. Thank you."

// neutralReply hides internal faults behind a non-committal answer; the
// honeypot never exposes an error surface to the counterpart.
const neutralReply = "I'm not sure I understand. Can you explain more?"

// Timestamp accepts both RFC3339 strings and unix epoch integers, since
// upstream platforms disagree on the wire format.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON parses a string or integer timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, str)
		if err != nil {
			return err
		}
		t.Time = parsed
		return nil
	}
	epoch, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	// Millisecond epochs are common; treat large values as such.
	if epoch > 1e12 {
		t.Time = time.UnixMilli(epoch).UTC()
	} else {
		t.Time = time.Unix(epoch, 0).UTC()
	}
	return nil
}

type inboundMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

type honeypotRequest struct {
	SessionID string         `json:"sessionId"`
	Message   inboundMessage `json:"message"`
}

type honeypotResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// Honeypot is the main inbound message endpoint. A missing sessionId
// starts a new session. Malformed payloads are rejected before the state
// machine runs, so no session mutation occurs for them.
func (h *Handler) Honeypot(w http.ResponseWriter, r *http.Request) {
	var req honeypotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, domain.ErrMalformedInput.Error())
		return
	}
	if strings.TrimSpace(req.Message.Sender) == "" {
		req.Message.Sender = "scammer"
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	at := req.Message.Timestamp.Time
	if at.IsZero() {
		at = time.Now().UTC()
	}

	result, err := h.engine.HandleMessage(r.Context(), sessionID, req.Message.Sender, req.Message.Text, at)
	if err != nil {
		if errors.Is(err, domain.ErrSessionClosed) {
			JSON(w, http.StatusOK, honeypotResponse{Status: "success", SessionID: sessionID, Reply: closedReply})
			return
		}
		slog.Error("Turn processing failed", "session_id", sessionID, "error", err)
		JSON(w, http.StatusOK, honeypotResponse{Status: "success", SessionID: sessionID, Reply: neutralReply})
		return
	}

	JSON(w, http.StatusOK, honeypotResponse{Status: "success", SessionID: result.SessionID, Reply: result.Reply})
}
