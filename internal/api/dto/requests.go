package dto

import (
	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/matcher"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// CreateSessionRequest seeds a new reconciliation session from an already
// parsed statement.
type CreateSessionRequest struct {
	CompanyID      string              `json:"company_id" binding:"required"`
	AccountID      string              `json:"account_id" binding:"required"`
	Statement      statement.Statement `json:"statement" binding:"required"`
	OpeningBalance *int64              `json:"opening_balance,omitempty"`
	ClosingBalance *int64              `json:"closing_balance,omitempty"`
}

// RunMatchingRequest supplies the candidate ledger entries for a run.
// Entries should already be pre-filtered to the statement window and must
// not include void or reconciled entries (the engine skips them anyway).
// History, when present, is used to build learned vendor patterns.
type RunMatchingRequest struct {
	Entries []ledger.Entry           `json:"entries" binding:"required"`
	History []scoring.ConfirmedMatch `json:"history,omitempty"`
}

// ApplyMatchesRequest applies a previously returned matching result to the
// session. Entries are needed again to recalculate the discrepancy.
type ApplyMatchesRequest struct {
	Result  matcher.Result `json:"result" binding:"required"`
	Entries []ledger.Entry `json:"entries"`
}

// ManualMatchRequest records one caller-confirmed match.
type ManualMatchRequest struct {
	StatementID string `json:"statement_id" binding:"required"`
	EntryID     string `json:"entry_id" binding:"required"`
}

// UnmatchRequest clears the match on one statement line.
type UnmatchRequest struct {
	StatementID string `json:"statement_id" binding:"required"`
}

// CompleteRequest finishes a reconciliation, with optional notes.
type CompleteRequest struct {
	Notes *string `json:"notes,omitempty"`
}
