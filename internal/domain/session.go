// Package domain defines the core honeypot data model.
package domain

import (
	"time"

	"github.com/decoynet/decoy/internal/intel"
)

// Status is the session lifecycle state. Resolved and expired are terminal:
// a session leaves active exactly once and never transitions out of a
// terminal state.
type Status string

const (
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
	StatusExpired  Status = "expired"
)

// Strategy is the tactical directive guiding reply generation.
type Strategy string

const (
	StrategyEngage        Strategy = "engage"
	StrategyStall         Strategy = "stall"
	StrategyProbe         Strategy = "probe"
	StrategyComplyPartial Strategy = "comply_partially"
	StrategyDisengage     Strategy = "disengage"
)

// PersonaID identifies the simulated victim character presented in replies.
type PersonaID string

const (
	PersonaNone      PersonaID = ""
	PersonaElderly   PersonaID = "elderly"
	PersonaEager     PersonaID = "eager"
	PersonaSkeptical PersonaID = "skeptical"
	PersonaTechnical PersonaID = "technical"
)

// Turn is one message in the conversation history.
type Turn struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds the full per-conversation state. All mutation happens
// under the per-session lock held by the engine; the session store only
// moves whole snapshots.
type Session struct {
	ID             string    `json:"session_id"`
	TurnCount      int       `json:"turn_count"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`

	RiskTier      RiskTier  `json:"risk_tier"`
	Confidence    float64   `json:"confidence"`
	ScamType      ScamType  `json:"scam_type"`
	ActivePersona PersonaID `json:"active_persona"`
	Strategy      Strategy  `json:"strategy"`

	History []Turn        `json:"history"`
	Ledger  *intel.Ledger `json:"ledger"`
	Status  Status        `json:"status"`

	// StagnantTurns counts consecutive turns that added no new
	// intelligence; the engine uses it as a lifecycle signal.
	StagnantTurns int `json:"stagnant_turns"`

	// CallbackFired guards the at-most-once resolution notification.
	// Set under the session lock at the active -> resolved edge.
	CallbackFired bool `json:"callback_fired"`
}

// Terminal reports whether the session has reached a terminal state.
func (s *Session) Terminal() bool {
	return s.Status == StatusResolved || s.Status == StatusExpired
}

// RecordTurn appends a message to the history and bumps activity.
func (s *Session) RecordTurn(sender, text string, at time.Time) {
	s.History = append(s.History, Turn{Sender: sender, Text: text, Timestamp: at})
	s.LastActivityAt = at
}

// RecentTurns returns the last n history entries.
func (s *Session) RecentTurns(n int) []Turn {
	if n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Report is the final snapshot delivered to the resolution callback and
// persisted to the report archive.
type Report struct {
	SessionID     string              `json:"sessionId"`
	ScamDetected  bool                `json:"scamDetected"`
	RiskTier      RiskTier            `json:"riskTier"`
	ScamType      ScamType            `json:"scamType"`
	TotalMessages int                 `json:"totalMessagesExchanged"`
	Intelligence  map[string][]string `json:"extractedIntelligence"`
	AgentNotes    string              `json:"agentNotes"`
	ResolvedAt    time.Time           `json:"resolvedAt"`
}
