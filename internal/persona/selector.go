package persona

import (
	"github.com/decoynet/decoy/internal/domain"
)

// Selection is the selector output for one turn.
type Selection struct {
	Persona  domain.PersonaID
	Strategy domain.Strategy
}

// Input carries the evidence the decision table keys on.
type Input struct {
	SessionID     string
	Tier          domain.RiskTier
	TurnCount     int
	Current       domain.PersonaID
	ScamType      domain.ScamType
	ChecklistDone bool
}

// Selector is a pure decision table over (tier, stage, checklist state).
// It holds no per-session state; everything it needs arrives in the Input.
type Selector struct{}

// NewSelector returns the persona/strategy decision table.
func NewSelector() *Selector { return &Selector{} }

// Select maps the current evidence to the active persona and strategy.
// The persona is assigned once and then held steady across turns unless a
// tier threshold forces a shift; character swings inside a short
// conversation read as fake.
func (s *Selector) Select(in Input) Selection {
	persona := in.Current
	if persona == domain.PersonaNone {
		persona = initialFor(in.SessionID, in.ScamType)
	}

	switch {
	case in.Tier == domain.TierConfirmedScam && in.ChecklistDone:
		// Everything we wanted is collected; wind the conversation down.
		return Selection{Persona: persona, Strategy: domain.StrategyDisengage}

	case in.Tier == domain.TierConfirmedScam:
		// Confirmed but the checklist has gaps: play along and pull for
		// the missing identifiers.
		return Selection{Persona: persona, Strategy: domain.StrategyComplyPartial}

	case in.Tier == domain.TierLikelyScam:
		if in.TurnCount >= 12 {
			return Selection{Persona: persona, Strategy: domain.StrategyStall}
		}
		return Selection{Persona: persona, Strategy: domain.StrategyComplyPartial}

	case in.Tier == domain.TierSuspicious:
		return Selection{Persona: persona, Strategy: domain.StrategyProbe}

	default:
		// Benign early traffic: stay neutral and cooperative to invite
		// disclosure.
		return Selection{Persona: persona, Strategy: domain.StrategyEngage}
	}
}
