package session

import "sync"

// Locks is a keyed mutex registry enforcing single-writer semantics per
// session id. Two concurrent messages for the same session must not
// interleave their state transitions; messages for different sessions
// proceed in parallel.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// NewLocks creates an empty lock registry.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*lockEntry)}
}

// Acquire blocks until the per-session lock for id is held and returns the
// release function. Entries are reference-counted so the registry does not
// accumulate a mutex per session ever seen.
func (l *Locks) Acquire(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
