// Package llm talks to the external generation backend that turns a
// persona, strategy and conversation context into reply prose.
package llm

import (
	"context"

	"github.com/decoynet/decoy/internal/domain"
)

// Request carries everything the backend needs to produce one reply.
type Request struct {
	Persona       domain.PersonaID
	Strategy      domain.Strategy
	ScamType      domain.ScamType
	LedgerSummary string
	History       []domain.Turn
	Message       string
	TurnCount     int
}

// Generator produces a reply for the given request. Implementations wrap
// backend failures in domain.ErrGenerationUnavailable so the engine can
// fall back to a stock persona reply instead of surfacing the fault.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
