package llm

import (
	"context"
	"fmt"

	"github.com/decoynet/decoy/internal/domain"
)

// Disabled is a Generator for deployments without a generation backend.
// Every call reports the backend unavailable, which the caller degrades
// to a canned persona stall.
type Disabled struct{}

// Generate always fails with domain.ErrGenerationUnavailable.
func (Disabled) Generate(ctx context.Context, req Request) (string, error) {
	return "", fmt.Errorf("%w: no backend configured", domain.ErrGenerationUnavailable)
}
