package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/decoynet/decoy/internal/domain"
	"github.com/decoynet/decoy/internal/intel"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, testFactory, time.Hour)
}

func TestRedisStore_GetOrCreate(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	s, created, err := store.GetOrCreate(ctx, "r1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if !created || s.ID != "r1" {
		t.Errorf("First contact: created=%v id=%s", created, s.ID)
	}

	_, created, err = store.GetOrCreate(ctx, "r1")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}
	if created {
		t.Error("Second contact should not create")
	}
}

func TestRedisStore_GetNotFound(t *testing.T) {
	store := newRedisStore(t)
	if _, err := store.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_SaveRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	s, _, err := store.GetOrCreate(ctx, "r2")
	if err != nil {
		t.Fatalf("GetOrCreate failed: %v", err)
	}

	s.TurnCount = 3
	s.RiskTier = domain.TierLikelyScam
	s.ActivePersona = domain.PersonaElderly
	s.RecordTurn("scammer", "share your otp", time.Now().UTC())
	s.Ledger.Absorb([]intel.Entity{{Type: intel.EntityPhone, Value: "9876543210"}}, 3)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Get(ctx, "r2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if loaded.TurnCount != 3 || loaded.RiskTier != domain.TierLikelyScam || loaded.ActivePersona != domain.PersonaElderly {
		t.Errorf("Snapshot lost fields: %+v", loaded)
	}
	if len(loaded.History) != 1 {
		t.Errorf("History lost: %v", loaded.History)
	}

	// Dedup survives the JSON round trip.
	if added := loaded.Ledger.Absorb([]intel.Entity{{Type: intel.EntityPhone, Value: "+91 9876543210"}}, 4); added != 0 {
		t.Errorf("Duplicate accepted after round trip, added=%d", added)
	}
}

func TestRedisStore_IDs(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, _, err := store.GetOrCreate(ctx, id); err != nil {
			t.Fatalf("GetOrCreate(%s) failed: %v", id, err)
		}
	}

	ids, err := store.IDs(ctx)
	if err != nil {
		t.Fatalf("IDs failed: %v", err)
	}
	if len(ids) != 3 {
		t.Errorf("Expected 3 ids, got %v", ids)
	}
}
