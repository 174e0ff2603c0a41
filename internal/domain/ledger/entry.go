// Package ledger defines the read-only view of double-entry ledger records
// that the reconciliation engine matches statement activity against.
//
// Entries are owned by the external ledger store. This package never mutates
// them; it only reads dates, descriptions, lines, and status.
package ledger

import "time"

// EntryStatus is the lifecycle state of a ledger entry.
//
// It is a closed enumeration rather than a free-form string so that a casing
// or spelling mismatch can never silently exclude a valid candidate.
type EntryStatus string

const (
	StatusDraft      EntryStatus = "draft"
	StatusPosted     EntryStatus = "posted"
	StatusVoid       EntryStatus = "void"
	StatusReconciled EntryStatus = "reconciled"
)

// Valid reports whether s is one of the known entry statuses.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPosted, StatusVoid, StatusReconciled:
		return true
	}
	return false
}

// Terminal reports whether entries in this status are excluded from matching.
// Void entries never represent real money movement and reconciled entries
// are already claimed by a previous reconciliation.
func (s EntryStatus) Terminal() bool {
	return s == StatusVoid || s == StatusReconciled
}

// Line is a single debit or credit leg of an entry.
// Amounts are in minor currency units (cents).
type Line struct {
	AccountID string `json:"account_id"`
	Debit     int64  `json:"debit"`
	Credit    int64  `json:"credit"`
}

// Entry is one double-entry transaction from the ledger store.
type Entry struct {
	ID          string      `json:"id"`
	Date        time.Time   `json:"date"`
	Description string      `json:"description"`
	Status      EntryStatus `json:"status"`
	Lines       []Line      `json:"lines"`
}

// NetAmount returns the economic magnitude of the entry: the larger of its
// total debits or total credits, in minor currency units.
func (e *Entry) NetAmount() int64 {
	var debits, credits int64
	for _, line := range e.Lines {
		debits += line.Debit
		credits += line.Credit
	}
	if debits > credits {
		return debits
	}
	return credits
}

// AccountEffect returns the net effect of the entry on the given account:
// debits minus credits across the lines touching that account.
func (e *Entry) AccountEffect(accountID string) int64 {
	var effect int64
	for _, line := range e.Lines {
		if line.AccountID == accountID {
			effect += line.Debit - line.Credit
		}
	}
	return effect
}

// Matchable reports whether the entry may be offered as a match candidate.
func (e *Entry) Matchable() bool {
	return !e.Status.Terminal()
}
