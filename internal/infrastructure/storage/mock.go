package storage

import (
	"encoding/json"
	"sort"

	"github.com/clearledger/reconciliation-backend/internal/domain/session"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	sessions map[string]*session.Session
	audit    map[string][]*AuditEntry
	nextID   int64

	// Hooks for test assertions
	SaveSessionCalled bool
	LastSavedSession  *session.Session
	AppendAuditCalled bool

	// Error injection for testing error paths
	SaveSessionErr error
	GetSessionErr  error
	AppendAuditErr error
}

// NewMockRepository creates a new mock repository for testing.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		sessions: make(map[string]*session.Session),
		audit:    make(map[string][]*AuditEntry),
		nextID:   1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock.
func (m *MockRepository) Close() error {
	return nil
}

// SaveSession stores a deep copy so later session mutations don't leak into
// the "persisted" state.
func (m *MockRepository) SaveSession(s *session.Session) error {
	m.SaveSessionCalled = true
	m.LastSavedSession = s
	if m.SaveSessionErr != nil {
		return m.SaveSessionErr
	}

	copied, err := deepCopySession(s)
	if err != nil {
		return err
	}
	m.sessions[s.ID] = copied
	return nil
}

// GetSession retrieves a session by id.
func (m *MockRepository) GetSession(id string) (*session.Session, error) {
	if m.GetSessionErr != nil {
		return nil, m.GetSessionErr
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return deepCopySession(s)
}

// ListSessions returns all sessions for a company, newest first.
func (m *MockRepository) ListSessions(companyID string) ([]*session.Session, error) {
	var sessions []*session.Session
	for _, s := range m.sessions {
		if s.CompanyID == companyID {
			copied, err := deepCopySession(s)
			if err != nil {
				return nil, err
			}
			sessions = append(sessions, copied)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

// AppendAudit appends an audit entry in memory.
func (m *MockRepository) AppendAudit(entry *AuditEntry) error {
	m.AppendAuditCalled = true
	if m.AppendAuditErr != nil {
		return m.AppendAuditErr
	}
	copied := *entry
	copied.ID = m.nextID
	m.nextID++
	m.audit[entry.SessionID] = append(m.audit[entry.SessionID], &copied)
	entry.ID = copied.ID
	return nil
}

// ListAudit returns a session's audit entries in append order.
func (m *MockRepository) ListAudit(sessionID string) ([]*AuditEntry, error) {
	entries := m.audit[sessionID]
	out := make([]*AuditEntry, len(entries))
	for i, e := range entries {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

// deepCopySession round-trips through JSON, which is also what the SQLite
// implementation does with the snapshot.
func deepCopySession(s *session.Session) (*session.Session, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var copied session.Session
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	if copied.MatchedEntryIDs == nil {
		copied.MatchedEntryIDs = []string{}
	}
	return &copied, nil
}
