package matcher

import (
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
)

// Candidate is one proposed single statement-to-ledger match. It lives for
// the duration of a matching run and is not persisted on its own.
type Candidate struct {
	StatementID string               `json:"statement_id"`
	EntryID     string               `json:"entry_id"`
	Confidence  scoring.Confidence   `json:"confidence"`
	Score       float64              `json:"score"`
	Factors     scoring.FactorScores `json:"factors"`
	Reasons     []string             `json:"reasons"`
}

// MultiMatchKind distinguishes the two aggregation directions.
type MultiMatchKind string

const (
	// KindSplitDeposit is one statement line covered by multiple ledger
	// entries (a deposit recorded as several receipts).
	KindSplitDeposit MultiMatchKind = "split_deposit"

	// KindPartialPayments is one ledger entry covered by multiple statement
	// lines (an invoice paid in installments).
	KindPartialPayments MultiMatchKind = "partial_payments"
)

// MultiMatch is a many-to-one or one-to-many match between statement lines
// and ledger entries whose amounts sum within tolerance.
type MultiMatch struct {
	StatementIDs   []string           `json:"statement_ids"`
	EntryIDs       []string           `json:"entry_ids"`
	Kind           MultiMatchKind     `json:"kind"`
	Confidence     scoring.Confidence `json:"confidence"`
	StatementTotal int64              `json:"statement_total"`
	LedgerTotal    int64              `json:"ledger_total"`
}

// Summary aggregates one matching run.
type Summary struct {
	TotalStatementLines   int                        `json:"total_statement_lines"`
	TotalLedgerEntries    int                        `json:"total_ledger_entries"`
	MatchedStatementLines int                        `json:"matched_statement_lines"`
	ByConfidence          map[scoring.Confidence]int `json:"by_confidence"`
	MatchedAmount         int64                      `json:"matched_amount"`
	UnmatchedAmount       int64                      `json:"unmatched_amount"`
}

// Result is the full output of one matching run.
type Result struct {
	Matches      []Candidate  `json:"matches"`
	MultiMatches []MultiMatch `json:"multi_matches"`

	// Accuracy is matched statement lines over total statement lines,
	// as a percentage. Zero, not NaN, for an empty statement.
	Accuracy float64 `json:"accuracy"`

	Summary Summary `json:"summary"`
}
