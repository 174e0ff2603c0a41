package session

// BalancedTolerance is how far (in minor currency units) the discrepancy may
// sit from zero and still count as balanced. It absorbs sub-unit rounding
// noise from converted or rounded statement amounts; anything past one whole
// currency unit is a real discrepancy the user has to see.
const BalancedTolerance = 100

// Summary is the caller-facing progress view of a session.
type Summary struct {
	SessionID           string  `json:"session_id"`
	Status              Status  `json:"status"`
	TotalTransactions   int     `json:"total_transactions"`
	MatchedTransactions int     `json:"matched_transactions"`
	MatchRate           float64 `json:"match_rate"`
	Discrepancy         int64   `json:"discrepancy"`
	IsBalanced          bool    `json:"is_balanced"`
}

// Summary derives the current progress of the session. MatchRate is zero,
// not NaN, for a statement with no transactions.
func (s *Session) Summary() Summary {
	matched := 0
	for i := range s.Statement.Transactions {
		if s.Statement.Transactions[i].Matched {
			matched++
		}
	}

	total := len(s.Statement.Transactions)
	rate := 0.0
	if total > 0 {
		rate = float64(matched) / float64(total) * 100
	}

	discrepancy := s.Discrepancy
	if discrepancy < 0 {
		discrepancy = -discrepancy
	}

	return Summary{
		SessionID:           s.ID,
		Status:              s.Status,
		TotalTransactions:   total,
		MatchedTransactions: matched,
		MatchRate:           rate,
		Discrepancy:         s.Discrepancy,
		IsBalanced:          discrepancy <= BalancedTolerance,
	}
}
