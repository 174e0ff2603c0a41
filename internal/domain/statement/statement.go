// Package statement defines the parsed bank statement that a reconciliation
// session works through.
//
// Parsing (CSV/PDF extraction) happens upstream; this package receives the
// already-structured result. A transaction is immutable once parsed except
// for its matched flag and matched entry link, which the session maintains.
package statement

import "time"

// Transaction is one line item from an externally issued statement.
// Amount is signed, in minor currency units: deposits positive,
// withdrawals negative.
type Transaction struct {
	ID             string    `json:"id"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Amount         int64     `json:"amount"`
	RunningBalance *int64    `json:"running_balance,omitempty"`
	Reference      string    `json:"reference,omitempty"`

	Matched        bool   `json:"matched"`
	MatchedEntryID string `json:"matched_entry_id,omitempty"`
}

// Statement is the full parsed statement for one period.
type Statement struct {
	PeriodStart    time.Time     `json:"period_start"`
	PeriodEnd      time.Time     `json:"period_end"`
	OpeningBalance *int64        `json:"opening_balance,omitempty"`
	ClosingBalance *int64        `json:"closing_balance,omitempty"`
	Transactions   []Transaction `json:"transactions"`
}
