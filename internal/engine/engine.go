// Package engine implements the per-session conversation state machine:
// it sequences signal extraction, risk scoring, ledger absorption and
// persona selection for each inbound message, decides lifecycle
// transitions and triggers the one-shot resolution callback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/decoynet/decoy/internal/callback"
	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/feed"
	"github.com/decoynet/decoy/internal/intel"
	"github.com/decoynet/decoy/internal/llm"
	"github.com/decoynet/decoy/internal/persona"
	"github.com/decoynet/decoy/internal/report"
	"github.com/decoynet/decoy/internal/risk"
	"github.com/decoynet/decoy/internal/session"
	"github.com/decoynet/decoy/internal/signal"
)

// closingReply is returned when a session resolves or a message arrives
// for a terminal session. Deliberately bland: the counterpart should read
// an ended conversation, not a tripped honeypot.
const closingReply = "Okay, thank you. I will check with my family and get back to you."

// Config carries the lifecycle policy knobs.
type Config struct {
	// TurnCap is the hard limit on inbound messages per session.
	TurnCap int
	// StagnationTurns is K: consecutive zero-intelligence turns after
	// confirmed_scam that resolve the session.
	StagnationTurns int
	// Checklist lists the entity types a complete session must collect.
	Checklist []intel.EntityType
}

// Engine is the top-level conversation orchestrator.
type Engine struct {
	store    session.Store
	locks    *session.Locks
	runner   *signal.Runner
	scorer   *risk.Scorer
	selector *persona.Selector
	gen      llm.Generator
	notifier callback.Notifier
	archive  report.Repository
	hub      *feed.Hub
	cfg      Config
}

// New wires the orchestrator. archive and hub may be nil.
func New(store session.Store, locks *session.Locks, scorer *risk.Scorer, gen llm.Generator, notifier callback.Notifier, archive report.Repository, hub *feed.Hub, cfg Config) *Engine {
	return &Engine{
		store:    store,
		locks:    locks,
		runner:   signal.NewRunner(),
		scorer:   scorer,
		selector: persona.NewSelector(),
		gen:      gen,
		notifier: notifier,
		archive:  archive,
		hub:      hub,
		cfg:      cfg,
	}
}

// NewSessionFactory returns the factory the session store uses for first
// contact.
func NewSessionFactory(cfg Config) session.Factory {
	return func(sessionID string) *domain.Session {
		now := time.Now().UTC()
		return &domain.Session{
			ID:             sessionID,
			CreatedAt:      now,
			LastActivityAt: now,
			RiskTier:       domain.TierBenign,
			ScamType:       domain.ScamUnknown,
			Strategy:       domain.StrategyEngage,
			Ledger:         intel.NewLedger(cfg.Checklist),
			Status:         domain.StatusActive,
		}
	}
}

// Result is the outcome of one processed turn.
type Result struct {
	SessionID string
	Reply     string
	Status    domain.Status
	RiskTier  domain.RiskTier
}

// HandleMessage runs the full turn pipeline for one inbound message.
// All session mutation happens under the per-session lock; concurrent
// messages for the same session serialize, different sessions run in
// parallel. Returns domain.ErrSessionClosed for terminal sessions.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, sender, text string, at time.Time) (*Result, error) {
	release := e.locks.Acquire(sessionID)
	defer release()

	s, created, err := e.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if created {
		slog.Info("Session started", "session_id", sessionID)
	}
	if s.Terminal() {
		return nil, domain.ErrSessionClosed
	}

	prevTier := s.RiskTier
	turn := s.TurnCount + 1

	// Pure analysis first: nothing below mutates the session until every
	// stage has produced a value, so a faulting stage leaves the session
	// untouched for concurrent readers.
	bundle, candidates := e.runner.Run(ctx, text, s.History)
	confidence, tier := e.scorer.Score(bundle, s.RiskTier)

	scamType := s.ScamType
	if scamType == domain.ScamUnknown && tier >= domain.TierSuspicious {
		scamType = risk.ClassifyScamType(text, bundle)
	}

	added := s.Ledger.Absorb(candidates, turn)
	stagnant := s.StagnantTurns + 1
	if added > 0 {
		stagnant = 0
	}

	sel := e.selector.Select(persona.Input{
		SessionID:     s.ID,
		Tier:          tier,
		TurnCount:     turn,
		Current:       s.ActivePersona,
		ScamType:      scamType,
		ChecklistDone: s.Ledger.IsComplete(),
	})

	// Commit the turn as one unit.
	s.TurnCount = turn
	s.RiskTier = tier
	if confidence > s.Confidence {
		s.Confidence = confidence
	}
	s.ScamType = scamType
	s.ActivePersona = sel.Persona
	s.Strategy = sel.Strategy
	s.StagnantTurns = stagnant
	s.RecordTurn(sender, text, at)

	if tier > prevTier {
		slog.Info("Risk tier escalated", "session_id", s.ID, "from", prevTier, "to", tier, "confidence", confidence)
		e.broadcast(feed.Event{Type: feed.EventEscalation, SessionID: s.ID, RiskTier: tier, Turn: turn})
	}

	if reason, done := e.resolutionReason(s); done {
		return e.resolve(ctx, s, reason)
	}

	// Commit before generating: if the caller disconnects mid-generation
	// the turn's risk and ledger progress must survive, only the reply
	// delivery is lost.
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.ID, err)
	}
	e.broadcast(feed.Event{Type: feed.EventTurn, SessionID: s.ID, RiskTier: s.RiskTier, Turn: turn, Detail: fmt.Sprintf("%d new entities", added)})

	reply := e.generateReply(ctx, s, text)
	s.RecordTurn("user", reply, time.Now().UTC())
	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.ID, err)
	}

	return &Result{SessionID: s.ID, Reply: reply, Status: s.Status, RiskTier: s.RiskTier}, nil
}

// resolutionReason evaluates the three resolution conditions in order.
func (e *Engine) resolutionReason(s *domain.Session) (string, bool) {
	switch {
	case s.Ledger.IsComplete():
		return "checklist complete", true
	case s.RiskTier == domain.TierConfirmedScam && s.StagnantTurns >= e.cfg.StagnationTurns:
		return fmt.Sprintf("no new intelligence for %d turns", s.StagnantTurns), true
	case s.TurnCount >= e.cfg.TurnCap:
		return "turn cap reached", true
	default:
		return "", false
	}
}

// resolve performs the active -> resolved transition. The caller holds the
// per-session lock, so the CallbackFired check-then-set is race-free and
// the notification fires at most once per session.
func (e *Engine) resolve(ctx context.Context, s *domain.Session, reason string) (*Result, error) {
	s.Status = domain.StatusResolved

	var rep domain.Report
	fire := !s.CallbackFired
	if fire {
		s.CallbackFired = true
		rep = buildReport(s, reason)
	}

	if err := e.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session %s: %w", s.ID, err)
	}

	slog.Info("Session resolved", "session_id", s.ID, "reason", reason, "tier", s.RiskTier, "entities", s.Ledger.Count())
	e.broadcast(feed.Event{Type: feed.EventResolved, SessionID: s.ID, RiskTier: s.RiskTier, Turn: s.TurnCount, Detail: reason})

	if fire {
		go e.deliver(rep)
	}

	return &Result{SessionID: s.ID, Reply: closingReply, Status: s.Status, RiskTier: s.RiskTier}, nil
}

// deliver ships the report to the callback and the archive. Runs detached
// from the request: delivery guarantees belong to the transport, the
// engine only guarantees a single trigger.
func (e *Engine) deliver(rep domain.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.notifier.NotifyResolution(ctx, rep); err != nil {
		slog.Error("Resolution callback failed", "session_id", rep.SessionID, "error", err)
	}
	if e.archive != nil {
		if err := e.archive.SaveReport(ctx, rep); err != nil {
			slog.Error("Failed to archive report", "session_id", rep.SessionID, "error", err)
		}
	}
}

// generateReply asks the backend for an in-character reply. The backend
// call is detached from the caller's context: a disconnect cancels only
// delivery, not the turn. Backend failure degrades to a stock persona
// stall so the counterpart never sees an error surface.
func (e *Engine) generateReply(ctx context.Context, s *domain.Session, message string) string {
	genCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	reply, err := e.gen.Generate(genCtx, llm.Request{
		Persona:       s.ActivePersona,
		Strategy:      s.Strategy,
		ScamType:      s.ScamType,
		LedgerSummary: s.Ledger.Summary(),
		History:       s.History[:len(s.History)-1], // current message is passed separately
		Message:       message,
		TurnCount:     s.TurnCount,
	})
	if err != nil {
		if errors.Is(err, domain.ErrGenerationUnavailable) {
			slog.Warn("Generation backend unavailable, using stall reply", "session_id", s.ID, "error", err)
		} else {
			slog.Error("Generation failed, using stall reply", "session_id", s.ID, "error", err)
		}
		return persona.StallReply(s.ActivePersona, s.TurnCount)
	}
	return reply
}

func (e *Engine) broadcast(event feed.Event) {
	if e.hub != nil {
		e.hub.Broadcast(event)
	}
}

// buildReport snapshots the final session state for the callback and the
// archive.
func buildReport(s *domain.Session, reason string) domain.Report {
	notes := fmt.Sprintf("Scam Type: %s. Extracted %d intelligence items. Resolution: %s.",
		s.ScamType, s.Ledger.Count(), reason)

	return domain.Report{
		SessionID:     s.ID,
		ScamDetected:  s.RiskTier >= domain.TierLikelyScam,
		RiskTier:      s.RiskTier,
		ScamType:      s.ScamType,
		TotalMessages: len(s.History),
		Intelligence:  s.Ledger.Snapshot(),
		AgentNotes:    notes,
		ResolvedAt:    time.Now().UTC(),
	}
}
