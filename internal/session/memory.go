package session

import (
	"context"
	"sync"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

// MemoryStore keeps all sessions in a process-local map. Sessions are
// shared by pointer, so Save is a no-op; mutation safety comes from the
// per-session locks held by the engine.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	factory  Factory
}

// NewMemoryStore creates an in-memory store using factory for new sessions.
func NewMemoryStore(factory Factory) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*domain.Session),
		factory:  factory,
	}
}

func (m *MemoryStore) GetOrCreate(ctx context.Context, id string) (*domain.Session, bool, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return s, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, false, nil
	}
	s = m.factory(id)
	m.sessions[id] = s
	return s, true, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) Save(ctx context.Context, s *domain.Session) error {
	return nil
}

func (m *MemoryStore) IDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) PurgeTerminal(ctx context.Context, retention time.Duration, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	purged := 0
	for id, s := range m.sessions {
		if s.Terminal() && now.Sub(s.LastActivityAt) > retention {
			delete(m.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of sessions held, terminal ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) Close() error { return nil }
