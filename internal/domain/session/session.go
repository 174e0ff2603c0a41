// Package session owns the lifecycle of one reconciliation attempt: the
// statement snapshot, the applied matches, the balances, and the status
// state machine.
//
// States: Draft -> Completed and Draft -> Abandoned, both terminal. No
// operation ever leaves a terminal state, and no match mutation is accepted
// in one.
//
// A session instance is exclusively owned by the caller driving the
// reconciliation; concurrent mutation from two callers must be serialized
// outside this package.
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/matcher"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether the status accepts no further mutation.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAbandoned
}

// Session is the stateful aggregate for one reconciliation attempt.
type Session struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	AccountID string `json:"account_id"`

	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	OpeningBalance *int64    `json:"opening_balance,omitempty"`
	ClosingBalance *int64    `json:"closing_balance,omitempty"`

	Status    Status              `json:"status"`
	Statement statement.Statement `json:"statement"`

	MatchedEntryIDs []string `json:"matched_entry_ids"`
	Discrepancy     int64    `json:"discrepancy"`

	FirstReconciliation bool       `json:"first_reconciliation"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	Notes               *string    `json:"notes,omitempty"`

	// Version is the causal-version token consumed by the external sync
	// layer. It changes on every mutation.
	Version string `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New seeds a session from an externally parsed statement and the account's
// known balances. Either balance may be nil; a first reconciliation has no
// prior reconciled starting point and still produces a usable session.
func New(companyID, accountID string, stmt statement.Statement, openingBalance, closingBalance *int64) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:                  uuid.NewString(),
		CompanyID:           companyID,
		AccountID:           accountID,
		PeriodStart:         stmt.PeriodStart,
		PeriodEnd:           stmt.PeriodEnd,
		OpeningBalance:      openingBalance,
		ClosingBalance:      closingBalance,
		Status:              StatusDraft,
		Statement:           stmt,
		MatchedEntryIDs:     []string{},
		FirstReconciliation: openingBalance == nil,
		Version:             uuid.NewString(),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// ApplyMatches replaces the session's match set wholesale with the output of
// a matching run and updates the matched flags and links inside the
// statement snapshot. Applying the same result twice is a no-op the second
// time, apart from the version token.
func (s *Session) ApplyMatches(result *matcher.Result) error {
	if s.Status.Terminal() {
		return ErrSessionClosed
	}

	byID := s.transactionIndex()
	entryIDs := make(map[string]bool)

	// Wholesale replace: everything unmatched first.
	for i := range s.Statement.Transactions {
		s.Statement.Transactions[i].Matched = false
		s.Statement.Transactions[i].MatchedEntryID = ""
	}

	for _, m := range result.Matches {
		if tx, ok := byID[m.StatementID]; ok {
			tx.Matched = true
			tx.MatchedEntryID = m.EntryID
			entryIDs[m.EntryID] = true
		}
	}

	for _, mm := range result.MultiMatches {
		for _, stmtID := range mm.StatementIDs {
			if tx, ok := byID[stmtID]; ok {
				tx.Matched = true
				// A multi-match has no single counterpart entry to link.
				tx.MatchedEntryID = ""
			}
		}
		for _, entryID := range mm.EntryIDs {
			entryIDs[entryID] = true
		}
	}

	s.MatchedEntryIDs = sortedKeys(entryIDs)
	s.touch()
	return nil
}

// AddManualMatch records a caller-confirmed match for one statement line.
func (s *Session) AddManualMatch(statementID, entryID string) error {
	if s.Status.Terminal() {
		return ErrSessionClosed
	}

	tx := s.findTransaction(statementID)
	if tx == nil {
		return ErrTransactionNotFound
	}
	if tx.Matched {
		return ErrAlreadyMatched
	}

	tx.Matched = true
	tx.MatchedEntryID = entryID
	s.addMatchedEntry(entryID)
	s.touch()
	return nil
}

// RemoveMatch clears the match on one statement line. The ledger entry is
// released from the matched set unless another line still links it.
func (s *Session) RemoveMatch(statementID string) error {
	if s.Status.Terminal() {
		return ErrSessionClosed
	}

	tx := s.findTransaction(statementID)
	if tx == nil {
		return ErrTransactionNotFound
	}

	entryID := tx.MatchedEntryID
	tx.Matched = false
	tx.MatchedEntryID = ""

	if entryID != "" && !s.entryStillLinked(entryID) {
		s.removeMatchedEntry(entryID)
	}
	s.touch()
	return nil
}

// CalculateDiscrepancy compares the net effect of the matched ledger entries
// on the reconciled account against the statement's reported balance change,
// stores the result, and returns it. With either balance absent there is
// nothing to compare against, so the discrepancy is zero rather than an
// error.
func (s *Session) CalculateDiscrepancy(matchedEntries []ledger.Entry, accountID string) int64 {
	if s.OpeningBalance == nil || s.ClosingBalance == nil {
		s.Discrepancy = 0
		return 0
	}

	var ledgerEffect int64
	for i := range matchedEntries {
		ledgerEffect += matchedEntries[i].AccountEffect(accountID)
	}

	statementChange := *s.ClosingBalance - *s.OpeningBalance
	s.Discrepancy = statementChange - ledgerEffect
	return s.Discrepancy
}

// Complete moves the session to its terminal Completed state.
func (s *Session) Complete(notes *string) error {
	if s.Status != StatusDraft {
		return ErrSessionClosed
	}

	now := time.Now().UTC()
	s.Status = StatusCompleted
	s.CompletedAt = &now
	s.Notes = notes
	s.touch()
	return nil
}

// Abandon moves the session to its terminal Abandoned state.
func (s *Session) Abandon() error {
	if s.Status != StatusDraft {
		return ErrSessionClosed
	}

	s.Status = StatusAbandoned
	s.touch()
	return nil
}

// TransactionsToReconcile returns the ledger entry ids the external ledger
// store should now flag as reconciled. Only meaningful once the session has
// completed.
func (s *Session) TransactionsToReconcile() ([]string, error) {
	if s.Status != StatusCompleted {
		return nil, ErrNotCompleted
	}

	ids := make([]string, len(s.MatchedEntryIDs))
	copy(ids, s.MatchedEntryIDs)
	return ids, nil
}

func (s *Session) findTransaction(id string) *statement.Transaction {
	for i := range s.Statement.Transactions {
		if s.Statement.Transactions[i].ID == id {
			return &s.Statement.Transactions[i]
		}
	}
	return nil
}

func (s *Session) transactionIndex() map[string]*statement.Transaction {
	index := make(map[string]*statement.Transaction, len(s.Statement.Transactions))
	for i := range s.Statement.Transactions {
		index[s.Statement.Transactions[i].ID] = &s.Statement.Transactions[i]
	}
	return index
}

func (s *Session) entryStillLinked(entryID string) bool {
	for i := range s.Statement.Transactions {
		if s.Statement.Transactions[i].MatchedEntryID == entryID {
			return true
		}
	}
	return false
}

func (s *Session) addMatchedEntry(entryID string) {
	for _, id := range s.MatchedEntryIDs {
		if id == entryID {
			return
		}
	}
	s.MatchedEntryIDs = append(s.MatchedEntryIDs, entryID)
	sort.Strings(s.MatchedEntryIDs)
}

func (s *Session) removeMatchedEntry(entryID string) {
	for i, id := range s.MatchedEntryIDs {
		if id == entryID {
			s.MatchedEntryIDs = append(s.MatchedEntryIDs[:i], s.MatchedEntryIDs[i+1:]...)
			return
		}
	}
}

// touch bumps the causal-version token and update timestamp.
func (s *Session) touch() {
	s.Version = uuid.NewString()
	s.UpdatedAt = time.Now().UTC()
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
