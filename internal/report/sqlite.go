package report

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/decoynet/decoy/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// ErrReportNotFound is returned when no report exists for a session.
var ErrReportNotFound = errors.New("report not found")

// NewSQLite creates a new SQLite-backed report archive.
func NewSQLite(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return repo, nil
}

func (r *SQLiteRepository) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS reports (
		session_id TEXT PRIMARY KEY,
		scam_detected INTEGER NOT NULL,
		risk_tier TEXT NOT NULL,
		scam_type TEXT NOT NULL,
		total_messages INTEGER NOT NULL,
		intelligence_json TEXT NOT NULL,
		agent_notes TEXT NOT NULL,
		resolved_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reports_resolved ON reports(resolved_at);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveReport upserts the report, retrying on SQLITE_BUSY with exponential
// backoff since the sweeper and engine can race on the archive.
func (r *SQLiteRepository) SaveReport(ctx context.Context, report domain.Report) error {
	intelligence, err := json.Marshal(report.Intelligence)
	if err != nil {
		return fmt.Errorf("marshal intelligence: %w", err)
	}

	query := `
	INSERT INTO reports (session_id, scam_detected, risk_tier, scam_type, total_messages, intelligence_json, agent_notes, resolved_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(session_id) DO UPDATE SET
		scam_detected = excluded.scam_detected,
		risk_tier = excluded.risk_tier,
		scam_type = excluded.scam_type,
		total_messages = excluded.total_messages,
		intelligence_json = excluded.intelligence_json,
		agent_notes = excluded.agent_notes,
		resolved_at = excluded.resolved_at
	`

	maxRetries := 3
	baseDelay := 100 * time.Millisecond
	for i := 0; i < maxRetries; i++ {
		_, err = r.db.ExecContext(ctx, query,
			report.SessionID,
			boolToInt(report.ScamDetected),
			report.RiskTier.String(),
			string(report.ScamType),
			report.TotalMessages,
			string(intelligence),
			report.AgentNotes,
			report.ResolvedAt.Unix(),
		)
		if err == nil {
			return nil
		}
		if isSQLiteConflict(err) && i < maxRetries-1 {
			time.Sleep(baseDelay * time.Duration(1<<i))
			continue
		}
		break
	}
	return fmt.Errorf("save report for %s: %w", report.SessionID, err)
}

func (r *SQLiteRepository) GetReport(ctx context.Context, sessionID string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT session_id, scam_detected, risk_tier, scam_type, total_messages, intelligence_json, agent_notes, resolved_at
	FROM reports WHERE session_id = ?`, sessionID)

	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report for %s: %w", sessionID, err)
	}
	return report, nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT session_id, scam_detected, risk_tier, scam_type, total_messages, intelligence_json, agent_notes, resolved_at
	FROM reports ORDER BY resolved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	return reports, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (*domain.Report, error) {
	var (
		report       domain.Report
		detected     int
		tier         string
		scamType     string
		intelligence string
		resolvedAt   int64
	)
	if err := row.Scan(&report.SessionID, &detected, &tier, &scamType, &report.TotalMessages, &intelligence, &report.AgentNotes, &resolvedAt); err != nil {
		return nil, err
	}

	report.ScamDetected = detected != 0
	report.ScamType = domain.ScamType(scamType)
	report.ResolvedAt = time.Unix(resolvedAt, 0).UTC()
	if err := json.Unmarshal([]byte(`"`+tier+`"`), &report.RiskTier); err != nil {
		return nil, fmt.Errorf("parse risk tier %q: %w", tier, err)
	}
	if err := json.Unmarshal([]byte(intelligence), &report.Intelligence); err != nil {
		return nil, fmt.Errorf("parse intelligence: %w", err)
	}
	return &report, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isSQLiteConflict reports SQLITE_BUSY / locked errors that warrant retry.
func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
