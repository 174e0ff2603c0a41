package storage

import (
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration.
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// allMigrations defines all migrations in order.
var allMigrations = []Migration{
	{
		Version: 1,
		Name:    "create_sessions_table",
		Up:      migration001CreateSessionsTable,
	},
	{
		Version: 2,
		Name:    "create_match_audit_table",
		Up:      migration002CreateMatchAuditTable,
	},
}

// runMigrations executes all pending migrations.
func (s *Storage) runMigrations() error {
	if _, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var current int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	for _, m := range allMigrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.Version, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func migration001CreateSessionsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS reconciliation_sessions (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		period_start TIMESTAMP NOT NULL,
		period_end TIMESTAMP NOT NULL,
		opening_balance INTEGER,
		closing_balance INTEGER,
		status TEXT NOT NULL,
		statement_json TEXT NOT NULL,
		matched_entry_ids_json TEXT NOT NULL,
		discrepancy INTEGER NOT NULL DEFAULT 0,
		first_reconciliation INTEGER NOT NULL DEFAULT 0,
		completed_at TIMESTAMP,
		notes TEXT,
		version TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_company ON reconciliation_sessions(company_id, created_at);
	`)
	return err
}

func migration002CreateMatchAuditTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS match_audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		statement_id TEXT NOT NULL,
		entry_id TEXT,
		action TEXT NOT NULL,
		confidence TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_session ON match_audit_log(session_id, id);
	`)
	return err
}
