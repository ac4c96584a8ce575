package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/intel"
)

func testFactory(id string) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:             id,
		CreatedAt:      now,
		LastActivityAt: now,
		Status:         domain.StatusActive,
		Strategy:       domain.StrategyEngage,
		ScamType:       domain.ScamUnknown,
		Ledger:         intel.NewLedger([]intel.EntityType{intel.EntityPhone}),
	}
}

func TestMemoryStore_GetOrCreate(t *testing.T) {
	store := NewMemoryStore(testFactory)
	ctx := context.Background()

	s, created, err := store.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created {
		t.Error("Expected created=true on first contact")
	}
	if s.ID != "s1" || s.Status != domain.StatusActive {
		t.Errorf("Factory output wrong: %+v", s)
	}

	again, created, err := store.GetOrCreate(ctx, "s1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("Expected created=false on second contact")
	}
	if again != s {
		t.Error("Memory store should return the same session pointer")
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore(testFactory)
	if _, err := store.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	store := NewMemoryStore(testFactory)
	ctx := context.Background()

	var wg sync.WaitGroup
	createdCount := make(chan bool, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := store.GetOrCreate(ctx, "race")
			if err != nil {
				t.Errorf("GetOrCreate failed: %v", err)
				return
			}
			createdCount <- created
		}()
	}
	wg.Wait()
	close(createdCount)

	n := 0
	for created := range createdCount {
		if created {
			n++
		}
	}
	if n != 1 {
		t.Errorf("Expected exactly one creation, got %d", n)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", store.Len())
	}
}

func TestMemoryStore_PurgeTerminal(t *testing.T) {
	store := NewMemoryStore(testFactory)
	ctx := context.Background()
	now := time.Now().UTC()

	fresh, _, _ := store.GetOrCreate(ctx, "fresh-resolved")
	fresh.Status = domain.StatusResolved
	fresh.LastActivityAt = now.Add(-time.Hour)

	old, _, _ := store.GetOrCreate(ctx, "old-resolved")
	old.Status = domain.StatusResolved
	old.LastActivityAt = now.Add(-48 * time.Hour)

	active, _, _ := store.GetOrCreate(ctx, "old-active")
	active.LastActivityAt = now.Add(-48 * time.Hour)

	purged, err := store.PurgeTerminal(ctx, 24*time.Hour, now)
	if err != nil {
		t.Fatalf("PurgeTerminal failed: %v", err)
	}
	if purged != 1 {
		t.Errorf("Expected 1 purged, got %d", purged)
	}
	if _, err := store.Get(ctx, "old-resolved"); err != ErrNotFound {
		t.Error("Old terminal session should be gone")
	}
	if _, err := store.Get(ctx, "old-active"); err != nil {
		t.Error("Active session must never be purged, only expired first")
	}
	if _, err := store.Get(ctx, "fresh-resolved"); err != nil {
		t.Error("Terminal session inside retention should survive")
	}
}

func TestLocks_SerializesSameID(t *testing.T) {
	locks := NewLocks()

	release := locks.Acquire("s1")

	acquired := make(chan struct{})
	go func() {
		r := locks.Acquire("s1")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("Second acquire succeeded while lock held")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("Second acquire never proceeded after release")
	}
}

func TestLocks_DifferentIDsIndependent(t *testing.T) {
	locks := NewLocks()

	release := locks.Acquire("s1")
	defer release()

	done := make(chan struct{})
	go func() {
		r := locks.Acquire("s2")
		r()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Different session ids must not contend")
	}
}

func TestLocks_NoLeak(t *testing.T) {
	locks := NewLocks()
	for i := 0; i < 100; i++ {
		release := locks.Acquire("transient")
		release()
	}
	locks.mu.Lock()
	defer locks.mu.Unlock()
	if len(locks.locks) != 0 {
		t.Errorf("Lock registry leaked %d entries", len(locks.locks))
	}
}
