package storage

import "time"

// Audit actions.
const (
	AuditActionApplied = "applied"
	AuditActionManual  = "manual"
	AuditActionRemoved = "removed"
)

// AuditEntry is one row of the match audit trail: who was matched to what,
// how, and with what confidence.
type AuditEntry struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	StatementID string    `json:"statement_id"`
	EntryID     string    `json:"entry_id,omitempty"`
	Action      string    `json:"action"`
	Confidence  string    `json:"confidence,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
