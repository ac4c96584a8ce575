// Package report persists final session reports so collected intelligence
// outlives the in-memory session state.
package report

import (
	"context"

	"github.com/decoynet/decoy/internal/domain"
)

// Repository archives resolved-session reports.
type Repository interface {
	// SaveReport stores the final report for a session. Saving the same
	// session twice keeps the latest report.
	SaveReport(ctx context.Context, report domain.Report) error

	// GetReport returns the archived report for a session id.
	GetReport(ctx context.Context, sessionID string) (*domain.Report, error)

	// ListRecent returns up to limit reports, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.Report, error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error

	Close() error
}
