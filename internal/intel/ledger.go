package intel

import (
	"fmt"
	"sort"
	"strings"
)

// Ledger is the per-session intelligence accumulator. Entities are
// append-only for the life of the session and deduplicated on
// (type, normalized value). A Ledger is owned by exactly one session and
// is not safe for concurrent use; the engine serializes access through the
// per-session lock.
type Ledger struct {
	Entities  []Entity            `json:"entities"`
	Checklist map[EntityType]bool `json:"checklist"`
	seen      map[string]struct{}
}

// NewLedger creates a ledger tracking the given checklist entity types.
func NewLedger(checklist []EntityType) *Ledger {
	progress := make(map[EntityType]bool, len(checklist))
	for _, t := range checklist {
		progress[t] = false
	}
	return &Ledger{
		Checklist: progress,
		seen:      make(map[string]struct{}),
	}
}

func dedupKey(t EntityType, normalized string) string {
	return string(t) + "\x00" + normalized
}

// rebuildSeen reconstructs the dedup index after JSON round-trips
// (the redis session store serializes whole sessions).
func (l *Ledger) rebuildSeen() {
	l.seen = make(map[string]struct{}, len(l.Entities))
	for _, e := range l.Entities {
		l.seen[dedupKey(e.Type, e.Value)] = struct{}{}
	}
}

// Absorb normalizes each candidate and inserts it unless an entity with
// the same (type, normalized value) already exists. FirstSeenTurn is set
// on insert and never changes. Returns the count of newly added entities;
// zero new intelligence across consecutive turns is a lifecycle signal
// for the orchestrator.
func (l *Ledger) Absorb(candidates []Entity, currentTurn int) int {
	if l.seen == nil || len(l.seen) != len(l.Entities) {
		l.rebuildSeen()
	}

	added := 0
	for _, c := range candidates {
		normalized, ok := Normalize(c.Type, c.Value)
		if !ok {
			continue
		}
		key := dedupKey(c.Type, normalized)
		if _, dup := l.seen[key]; dup {
			continue
		}
		l.seen[key] = struct{}{}
		l.Entities = append(l.Entities, Entity{
			Type:          c.Type,
			Value:         normalized,
			FirstSeenTurn: currentTurn,
			Confidence:    c.Confidence,
		})
		// A conflicting value for an already-satisfied type is still
		// recorded; the ledger preserves ambiguity, it does not arbitrate.
		if _, tracked := l.Checklist[c.Type]; tracked {
			l.Checklist[c.Type] = true
		}
		added++
	}
	return added
}

// IsComplete reports whether every checklist item is satisfied.
func (l *Ledger) IsComplete() bool {
	for _, done := range l.Checklist {
		if !done {
			return false
		}
	}
	return true
}

// Count returns the number of distinct entities collected.
func (l *Ledger) Count() int { return len(l.Entities) }

// CountByType returns how many entities of one type were collected.
func (l *Ledger) CountByType(t EntityType) int {
	n := 0
	for _, e := range l.Entities {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Snapshot groups normalized values by type for callbacks and reports.
// Only non-empty types appear.
func (l *Ledger) Snapshot() map[string][]string {
	out := make(map[string][]string)
	for _, e := range l.Entities {
		out[string(e.Type)] = append(out[string(e.Type)], e.Value)
	}
	for _, values := range out {
		sort.Strings(values)
	}
	return out
}

// Summary renders a short human-readable digest used to condition reply
// generation ("what we already have, what is still missing").
func (l *Ledger) Summary() string {
	if len(l.Entities) == 0 && len(l.Checklist) == 0 {
		return "no intelligence collected yet"
	}

	var have, missing []string
	types := make([]EntityType, 0, len(l.Checklist))
	for t := range l.Checklist {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		if l.Checklist[t] {
			have = append(have, fmt.Sprintf("%s (%d)", t, l.CountByType(t)))
		} else {
			missing = append(missing, string(t))
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d items collected", len(l.Entities))
	if len(have) > 0 {
		fmt.Fprintf(&b, "; have: %s", strings.Join(have, ", "))
	}
	if len(missing) > 0 {
		fmt.Fprintf(&b, "; still missing: %s", strings.Join(missing, ", "))
	}
	return b.String()
}
