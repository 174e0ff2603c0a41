package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clearledger/reconciliation-backend/internal/domain/session"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// Storage provides SQLite database access for reconciliation sessions.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveSession inserts or replaces a session by id.
func (s *Storage) SaveSession(sess *session.Session) error {
	statementJSON, err := json.Marshal(sess.Statement)
	if err != nil {
		return fmt.Errorf("failed to serialize statement snapshot: %w", err)
	}
	matchedJSON, err := json.Marshal(sess.MatchedEntryIDs)
	if err != nil {
		return fmt.Errorf("failed to serialize matched ids: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO reconciliation_sessions
	(id, company_id, account_id, period_start, period_end,
	 opening_balance, closing_balance, status, statement_json,
	 matched_entry_ids_json, discrepancy, first_reconciliation,
	 completed_at, notes, version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		sess.ID, sess.CompanyID, sess.AccountID,
		sess.PeriodStart, sess.PeriodEnd,
		nullableInt64(sess.OpeningBalance), nullableInt64(sess.ClosingBalance),
		string(sess.Status), string(statementJSON),
		string(matchedJSON), sess.Discrepancy, sess.FirstReconciliation,
		nullableTime(sess.CompletedAt), nullableString(sess.Notes),
		sess.Version, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by id.
func (s *Storage) GetSession(id string) (*session.Session, error) {
	row := s.db.QueryRow(sessionSelect+` WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

// ListSessions returns all sessions for a company, newest first.
func (s *Storage) ListSessions(companyID string) ([]*session.Session, error) {
	rows, err := s.db.Query(sessionSelect+` WHERE company_id = ? ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// AppendAudit appends one audit entry.
func (s *Storage) AppendAudit(entry *AuditEntry) error {
	query := `
	INSERT INTO match_audit_log (session_id, statement_id, entry_id, action, confidence, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.Exec(query,
		entry.SessionID, entry.StatementID, entry.EntryID,
		entry.Action, entry.Confidence, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}
	return nil
}

// ListAudit returns a session's audit entries in append order.
func (s *Storage) ListAudit(sessionID string) ([]*AuditEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, session_id, statement_id, entry_id, action, confidence, created_at
		FROM match_audit_log WHERE session_id = ? ORDER BY id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*AuditEntry
	for rows.Next() {
		var entry AuditEntry
		var entryID, confidence sql.NullString
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.StatementID,
			&entryID, &entry.Action, &confidence, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.EntryID = entryID.String
		entry.Confidence = confidence.String
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}

const sessionSelect = `
	SELECT id, company_id, account_id, period_start, period_end,
	       opening_balance, closing_balance, status, statement_json,
	       matched_entry_ids_json, discrepancy, first_reconciliation,
	       completed_at, notes, version, created_at, updated_at
	FROM reconciliation_sessions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var sess session.Session
	var status string
	var statementJSON, matchedJSON string
	var opening, closing sql.NullInt64
	var completedAt sql.NullTime
	var notes sql.NullString

	err := row.Scan(
		&sess.ID, &sess.CompanyID, &sess.AccountID,
		&sess.PeriodStart, &sess.PeriodEnd,
		&opening, &closing, &status, &statementJSON,
		&matchedJSON, &sess.Discrepancy, &sess.FirstReconciliation,
		&completedAt, &notes, &sess.Version, &sess.CreatedAt, &sess.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	sess.Status = session.Status(status)
	if opening.Valid {
		sess.OpeningBalance = &opening.Int64
	}
	if closing.Valid {
		sess.ClosingBalance = &closing.Int64
	}
	if completedAt.Valid {
		sess.CompletedAt = &completedAt.Time
	}
	if notes.Valid {
		sess.Notes = &notes.String
	}

	var stmt statement.Statement
	if err := json.Unmarshal([]byte(statementJSON), &stmt); err != nil {
		return nil, fmt.Errorf("failed to deserialize statement snapshot: %w", err)
	}
	sess.Statement = stmt

	if err := json.Unmarshal([]byte(matchedJSON), &sess.MatchedEntryIDs); err != nil {
		return nil, fmt.Errorf("failed to deserialize matched ids: %w", err)
	}
	if sess.MatchedEntryIDs == nil {
		sess.MatchedEntryIDs = []string{}
	}

	return &sess, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) any {
	if v == nil {
		return nil
	}
	return *v
}
