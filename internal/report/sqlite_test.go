package report

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/decoynet/decoy/internal/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "reports.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleReport(id string, resolvedAt time.Time) domain.Report {
	return domain.Report{
		SessionID:     id,
		ScamDetected:  true,
		RiskTier:      domain.TierConfirmedScam,
		ScamType:      domain.ScamUPIFraud,
		TotalMessages: 18,
		Intelligence:  map[string][]string{"upi_id": {"fraud@paytm"}, "phone": {"9876543210"}},
		AgentNotes:    "Scam Type: upi_fraud. Extracted 2 intelligence items. Resolution: checklist complete.",
		ResolvedAt:    resolvedAt,
	}
}

func TestSQLiteRepository_SaveAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	if err := repo.SaveReport(ctx, sampleReport("s1", now)); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	got, err := repo.GetReport(ctx, "s1")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.SessionID != "s1" || !got.ScamDetected || got.RiskTier != domain.TierConfirmedScam {
		t.Errorf("Report fields lost: %+v", got)
	}
	if got.ScamType != domain.ScamUPIFraud || got.TotalMessages != 18 {
		t.Errorf("Report fields lost: %+v", got)
	}
	if len(got.Intelligence["upi_id"]) != 1 || got.Intelligence["upi_id"][0] != "fraud@paytm" {
		t.Errorf("Intelligence lost: %v", got.Intelligence)
	}
	if !got.ResolvedAt.Equal(now) {
		t.Errorf("ResolvedAt = %v, want %v", got.ResolvedAt, now)
	}
}

func TestSQLiteRepository_Upsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := sampleReport("s1", now)
	first.TotalMessages = 5
	if err := repo.SaveReport(ctx, first); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	second := sampleReport("s1", now)
	second.TotalMessages = 9
	if err := repo.SaveReport(ctx, second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	got, err := repo.GetReport(ctx, "s1")
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}
	if got.TotalMessages != 9 {
		t.Errorf("Upsert did not replace: %d", got.TotalMessages)
	}

	reports, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(reports) != 1 {
		t.Errorf("Expected 1 report after upsert, got %d", len(reports))
	}
}

func TestSQLiteRepository_GetNotFound(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetReport(context.Background(), "missing"); !errors.Is(err, ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestSQLiteRepository_ListRecentOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	for i, id := range []string{"oldest", "middle", "newest"} {
		if err := repo.SaveReport(ctx, sampleReport(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveReport(%s) failed: %v", id, err)
		}
	}

	reports, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("Expected 2 reports, got %d", len(reports))
	}
	if reports[0].SessionID != "newest" || reports[1].SessionID != "middle" {
		t.Errorf("Wrong order: %s, %s", reports[0].SessionID, reports[1].SessionID)
	}
}

func TestSQLiteRepository_Ping(t *testing.T) {
	repo := newTestRepo(t)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
