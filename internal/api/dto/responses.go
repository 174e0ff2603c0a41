package dto

import "time"

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// NewHealthResponse creates a healthy response with the current time.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

// ReconcileIDsResponse carries the ledger entry ids to flag as reconciled.
type ReconcileIDsResponse struct {
	EntryIDs []string `json:"entry_ids"`
}
