// Package session provides process-wide keyed session state with idle
// expiry. Two backends exist: an in-memory map (the default) and a redis
// store for deployments that want sessions to survive a process swap.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

// ErrNotFound is returned when no session exists for a key.
var ErrNotFound = errors.New("session not found")

// Factory builds a fresh active session for a key.
type Factory func(sessionID string) *domain.Session

// Store holds one session context per active conversation.
//
// Stores do not serialize turns: callers must hold the per-session lock
// (see Locks) around any get-mutate-save sequence for one session id.
// Access to different sessions never blocks.
type Store interface {
	// GetOrCreate returns the session for id, creating an active one with
	// turn_count=0 on first reference. The second result reports creation.
	GetOrCreate(ctx context.Context, id string) (*domain.Session, bool, error)

	// Get returns the session for id or ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Save persists the session state. In-memory stores share pointers and
	// treat this as a no-op; the redis store marshals the snapshot.
	Save(ctx context.Context, s *domain.Session) error

	// IDs lists the keys of all stored sessions. The idle-expiry sweeper
	// uses it to enumerate candidates, then re-checks each one under its
	// per-session lock.
	IDs(ctx context.Context) ([]string, error)

	// PurgeTerminal drops terminal sessions older than the retention
	// window so post-terminal lookups keep answering SessionClosed for a
	// while without the store growing forever.
	PurgeTerminal(ctx context.Context, retention time.Duration, now time.Time) (int, error)

	Close() error
}
