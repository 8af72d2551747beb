/*
Package sqlite provides SQLite-backed persistence for adjudication records.

PURPOSE:
  Every orchestrated claim decision is stored for audit and review: who the
  claim was for, which terminal outcome it reached, the approved total and
  final payout, and the full request/response JSON for replay. In
  production the same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

APPEND-ONLY ENFORCEMENT:
  Adjudication records are never updated or deleted through this store.
  A re-adjudicated claim gets a new record with a new id; history is the
  point.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/claims.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - api/handlers.go: Writes a record per adjudication
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// AdjudicationRecord is one stored claim decision.
type AdjudicationRecord struct {
	ID               string
	TenantName       string
	PropertyAddress  string
	Outcome          string // gate_failed | estimate_only | final_payout
	GateStatus       string // Approved | Declined
	TotalApproved    decimal.Decimal
	FinalPayout      decimal.Decimal
	PayoutAvailable  bool
	JurisdictionUsed string
	RequestJSON      string
	ResponseJSON     string
	CreatedAt        time.Time
}

// Store persists adjudication records in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Adjudication records (append-only)
	CREATE TABLE IF NOT EXISTS adjudications (
		id TEXT PRIMARY KEY,
		tenant_name TEXT,
		property_address TEXT,
		outcome TEXT NOT NULL,
		gate_status TEXT NOT NULL,
		total_approved TEXT NOT NULL,
		final_payout TEXT NOT NULL,
		payout_available INTEGER NOT NULL,
		jurisdiction_used TEXT,
		request_json TEXT NOT NULL,
		response_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_adjudications_created
		ON adjudications(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_adjudications_outcome
		ON adjudications(outcome);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveAdjudication appends one record.
func (s *Store) SaveAdjudication(ctx context.Context, rec AdjudicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO adjudications
			(id, tenant_name, property_address, outcome, gate_status,
			 total_approved, final_payout, payout_available, jurisdiction_used,
			 request_json, response_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TenantName, rec.PropertyAddress, rec.Outcome, rec.GateStatus,
		rec.TotalApproved.String(), rec.FinalPayout.String(), boolToInt(rec.PayoutAvailable),
		rec.JurisdictionUsed, rec.RequestJSON, rec.ResponseJSON,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save adjudication: %w", err)
	}
	return nil
}

// GetAdjudication returns one record by id, or nil if not found.
func (s *Store) GetAdjudication(ctx context.Context, id string) (*AdjudicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_name, property_address, outcome, gate_status,
		       total_approved, final_payout, payout_available, jurisdiction_used,
		       request_json, response_json, created_at
		FROM adjudications WHERE id = ?`, id)

	rec, err := scanAdjudication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListAdjudications returns the most recent records, newest first.
func (s *Store) ListAdjudications(ctx context.Context, limit int) ([]AdjudicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_name, property_address, outcome, gate_status,
		       total_approved, final_payout, payout_available, jurisdiction_used,
		       request_json, response_json, created_at
		FROM adjudications
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AdjudicationRecord
	for rows.Next() {
		rec, err := scanAdjudication(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Reset drops all records. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM adjudications`)
	return err
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAdjudication(row scanner) (*AdjudicationRecord, error) {
	var rec AdjudicationRecord
	var totalApproved, finalPayout, createdAt string
	var payoutAvailable int

	err := row.Scan(
		&rec.ID, &rec.TenantName, &rec.PropertyAddress, &rec.Outcome, &rec.GateStatus,
		&totalApproved, &finalPayout, &payoutAvailable, &rec.JurisdictionUsed,
		&rec.RequestJSON, &rec.ResponseJSON, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.TotalApproved, err = decimal.NewFromString(totalApproved)
	if err != nil {
		return nil, fmt.Errorf("corrupt total_approved %q: %w", totalApproved, err)
	}
	rec.FinalPayout, err = decimal.NewFromString(finalPayout)
	if err != nil {
		return nil, fmt.Errorf("corrupt final_payout %q: %w", finalPayout, err)
	}
	rec.PayoutAvailable = payoutAvailable != 0
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("corrupt created_at %q: %w", createdAt, err)
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
