// Package service wires the reconciliation domain to persistence.
//
// ReconcileService is the single entry point the API and CLI use: it loads
// the session aggregate, invokes the domain operation, records the audit
// trail, and saves. All matching computation itself is synchronous, pure,
// and in-memory; the only I/O here is the repository.
package service

import (
	"log/slog"
	"time"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/matcher"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/session"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
	"github.com/clearledger/reconciliation-backend/internal/infrastructure/storage"
)

// ReconcileService manages reconciliation sessions and matching runs.
type ReconcileService struct {
	repo   storage.Repository
	config scoring.Config
	logger *slog.Logger
}

// NewReconcileService creates a reconcile service.
func NewReconcileService(repo storage.Repository, config scoring.Config, logger *slog.Logger) *ReconcileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileService{
		repo:   repo,
		config: config,
		logger: logger,
	}
}

// CreateSession seeds a new draft session from a parsed statement and
// persists it.
func (s *ReconcileService) CreateSession(companyID, accountID string, stmt statement.Statement, openingBalance, closingBalance *int64) (*session.Session, error) {
	sess := session.New(companyID, accountID, stmt, openingBalance, closingBalance)
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation session created",
		"session_id", sess.ID,
		"company_id", companyID,
		"account_id", accountID,
		"transactions", len(stmt.Transactions),
		"first_reconciliation", sess.FirstReconciliation)

	return sess, nil
}

// GetSession loads a session by id.
func (s *ReconcileService) GetSession(id string) (*session.Session, error) {
	return s.repo.GetSession(id)
}

// ListSessions returns a company's sessions, newest first.
func (s *ReconcileService) ListSessions(companyID string) ([]*session.Session, error) {
	return s.repo.ListSessions(companyID)
}

// RunMatching scores a session's statement snapshot against the supplied
// ledger entries and returns the proposed matches. Nothing is applied or
// persisted; the caller reviews the result and applies it separately.
func (s *ReconcileService) RunMatching(sessionID string, entries []ledger.Entry, patterns scoring.PatternSet) (*matcher.Result, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	engine := matcher.NewEngine(s.config, patterns, s.logger)
	result := engine.Run(sess.Statement.Transactions, entries)

	s.logger.Info("matching run finished",
		"session_id", sessionID,
		"matches", len(result.Matches),
		"multi_matches", len(result.MultiMatches),
		"accuracy", result.Accuracy)

	return result, nil
}

// ApplyMatches replaces the session's match set with a matching result,
// recalculates the discrepancy against the supplied ledger entries, and
// persists the session. Repeating the call with the same result is
// harmless.
func (s *ReconcileService) ApplyMatches(sessionID string, result *matcher.Result, entries []ledger.Entry) (*session.Session, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.ApplyMatches(result); err != nil {
		return nil, err
	}
	sess.CalculateDiscrepancy(matchedEntries(sess, entries), sess.AccountID)

	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}

	for _, m := range result.Matches {
		s.audit(sessionID, m.StatementID, m.EntryID, storage.AuditActionApplied, string(m.Confidence))
	}
	for _, mm := range result.MultiMatches {
		for _, stmtID := range mm.StatementIDs {
			for _, entryID := range mm.EntryIDs {
				s.audit(sessionID, stmtID, entryID, storage.AuditActionApplied, string(mm.Confidence))
			}
		}
	}

	return sess, nil
}

// ManualMatch records one caller-confirmed match and persists the session.
func (s *ReconcileService) ManualMatch(sessionID, statementID, entryID string) (*session.Session, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.AddManualMatch(statementID, entryID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}

	s.audit(sessionID, statementID, entryID, storage.AuditActionManual, "")
	return sess, nil
}

// Unmatch clears the match on one statement line and persists the session.
func (s *ReconcileService) Unmatch(sessionID, statementID string) (*session.Session, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.RemoveMatch(statementID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}

	s.audit(sessionID, statementID, "", storage.AuditActionRemoved, "")
	return sess, nil
}

// Complete moves the session to its terminal Completed state and persists.
func (s *ReconcileService) Complete(sessionID string, notes *string) (*session.Session, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Complete(notes); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}

	s.logger.Info("reconciliation completed",
		"session_id", sessionID,
		"matched_entries", len(sess.MatchedEntryIDs),
		"discrepancy", sess.Discrepancy)

	return sess, nil
}

// Abandon moves the session to its terminal Abandoned state and persists.
func (s *ReconcileService) Abandon(sessionID string) (*session.Session, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.Abandon(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveSession(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Summary returns the session's progress view.
func (s *ReconcileService) Summary(sessionID string) (session.Summary, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return session.Summary{}, err
	}
	return sess.Summary(), nil
}

// TransactionsToReconcile returns the ledger entry ids the external ledger
// store should flag as reconciled. Valid only after completion.
func (s *ReconcileService) TransactionsToReconcile(sessionID string) ([]string, error) {
	sess, err := s.repo.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.TransactionsToReconcile()
}

// Audit returns the session's match audit trail.
func (s *ReconcileService) Audit(sessionID string) ([]*storage.AuditEntry, error) {
	return s.repo.ListAudit(sessionID)
}

// audit appends an audit entry; failures are logged, not propagated, since
// the trail is advisory and the match itself already persisted.
func (s *ReconcileService) audit(sessionID, statementID, entryID, action, confidence string) {
	err := s.repo.AppendAudit(&storage.AuditEntry{
		SessionID:   sessionID,
		StatementID: statementID,
		EntryID:     entryID,
		Action:      action,
		Confidence:  confidence,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to record audit entry",
			"session_id", sessionID,
			"statement_id", statementID,
			"error", err)
	}
}

// matchedEntries filters the supplied entries down to the session's matched
// set.
func matchedEntries(sess *session.Session, entries []ledger.Entry) []ledger.Entry {
	matched := make(map[string]bool, len(sess.MatchedEntryIDs))
	for _, id := range sess.MatchedEntryIDs {
		matched[id] = true
	}

	var out []ledger.Entry
	for i := range entries {
		if matched[entries[i].ID] {
			out = append(out, entries[i])
		}
	}
	return out
}
