package storage

import (
	"errors"

	"github.com/clearledger/reconciliation-backend/internal/domain/session"
)

// ErrSessionNotFound is returned when no session exists for the given id.
var ErrSessionNotFound = errors.New("we couldn't find that reconciliation")

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, PostgreSQL, etc.)
// and makes testing with mocks straightforward.
type Repository interface {
	SessionRepository
	AuditRepository
	Close() error
}

// SessionRepository persists reconciliation sessions. The aggregate
// round-trips whole: statement snapshot, matched-id set, balances, status,
// timestamps, and causal-version token all survive a save/load cycle.
type SessionRepository interface {
	// SaveSession inserts or replaces a session by id.
	SaveSession(s *session.Session) error

	// GetSession retrieves a session by id.
	GetSession(id string) (*session.Session, error)

	// ListSessions returns all sessions for a company, newest first.
	ListSessions(companyID string) ([]*session.Session, error)
}

// AuditRepository records the match audit trail.
type AuditRepository interface {
	// AppendAudit appends one audit entry.
	AppendAudit(entry *AuditEntry) error

	// ListAudit returns a session's audit entries in append order.
	ListAudit(sessionID string) ([]*AuditEntry, error)
}
