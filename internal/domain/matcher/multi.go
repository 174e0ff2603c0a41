package matcher

import (
	"time"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// findMultiMatches runs the combinatorial phase over whatever the greedy
// pass left unclaimed. The search is restricted to 2-element subsets:
// general subset-sum would be exponential, and reconciliations past two
// pieces need a human anyway.
//
// Multi-matches always carry MEDIUM confidence. Aggregation can make
// coincidental sums look intentional, so they never rank above a direct
// one-to-one correspondence.
func (e *Engine) findMultiMatches(
	transactions []statement.Transaction,
	entries []ledger.Entry,
	claimedTxs map[string]bool,
	claimedEntries map[string]bool,
) []MultiMatch {
	matches := []MultiMatch{}
	matches = append(matches, e.findSplitDeposits(transactions, entries, claimedTxs, claimedEntries)...)
	matches = append(matches, e.findPartialPayments(transactions, entries, claimedTxs, claimedEntries)...)
	return matches
}

// findSplitDeposits looks, for each unmatched statement line, for a pair of
// unclaimed ledger entries inside the date window whose net amounts sum to
// the line's amount within tolerance. The first qualifying pair wins.
func (e *Engine) findSplitDeposits(
	transactions []statement.Transaction,
	entries []ledger.Entry,
	claimedTxs map[string]bool,
	claimedEntries map[string]bool,
) []MultiMatch {
	var matches []MultiMatch

	for _, idx := range dateOrdered(transactions) {
		tx := &transactions[idx]
		if claimedTxs[tx.ID] {
			continue
		}

		window := entriesInWindow(entries, claimedEntries, tx.Date, e.config.DateToleranceDays)
		target := absAmount(tx.Amount)
		tolerance := e.amountTolerance(target)

		if first, second, ok := findAmountPair(window, target, tolerance); ok {
			claimedTxs[tx.ID] = true
			claimedEntries[first.ID] = true
			claimedEntries[second.ID] = true

			matches = append(matches, MultiMatch{
				StatementIDs:   []string{tx.ID},
				EntryIDs:       []string{first.ID, second.ID},
				Kind:           KindSplitDeposit,
				Confidence:     scoring.ConfidenceMedium,
				StatementTotal: target,
				LedgerTotal:    first.NetAmount() + second.NetAmount(),
			})
		}
	}

	return matches
}

// findPartialPayments is the symmetric direction: for each unclaimed ledger
// entry, a pair of unmatched statement lines summing to its net amount.
// Installments spread further apart than a split deposit settles, so the
// date window is doubled.
func (e *Engine) findPartialPayments(
	transactions []statement.Transaction,
	entries []ledger.Entry,
	claimedTxs map[string]bool,
	claimedEntries map[string]bool,
) []MultiMatch {
	var matches []MultiMatch
	windowDays := e.config.DateToleranceDays * 2

	for i := range entries {
		entry := &entries[i]
		if claimedEntries[entry.ID] || !entry.Matchable() {
			continue
		}

		var window []*statement.Transaction
		for j := range transactions {
			tx := &transactions[j]
			if claimedTxs[tx.ID] {
				continue
			}
			if daysApart(tx.Date, entry.Date) <= windowDays {
				window = append(window, tx)
			}
		}

		target := entry.NetAmount()
		tolerance := e.amountTolerance(target)

		if first, second, ok := findTransactionPair(window, target, tolerance); ok {
			claimedEntries[entry.ID] = true
			claimedTxs[first.ID] = true
			claimedTxs[second.ID] = true

			matches = append(matches, MultiMatch{
				StatementIDs:   []string{first.ID, second.ID},
				EntryIDs:       []string{entry.ID},
				Kind:           KindPartialPayments,
				Confidence:     scoring.ConfidenceMedium,
				StatementTotal: absAmount(first.Amount) + absAmount(second.Amount),
				LedgerTotal:    target,
			})
		}
	}

	return matches
}

// amountTolerance converts the configured percentage into minor units for
// the given target amount.
func (e *Engine) amountTolerance(target int64) int64 {
	return int64(float64(target) * e.config.AmountTolerancePercent / 100)
}

// entriesInWindow collects unclaimed, matchable entries within days of ref.
func entriesInWindow(entries []ledger.Entry, claimed map[string]bool, ref time.Time, days int) []*ledger.Entry {
	var window []*ledger.Entry
	for i := range entries {
		entry := &entries[i]
		if claimed[entry.ID] || !entry.Matchable() {
			continue
		}
		if daysApart(entry.Date, ref) <= days {
			window = append(window, entry)
		}
	}
	return window
}

// findAmountPair searches all 2-element subsets of window for net amounts
// summing to target within tolerance.
func findAmountPair(window []*ledger.Entry, target, tolerance int64) (*ledger.Entry, *ledger.Entry, bool) {
	for i := 0; i < len(window); i++ {
		for j := i + 1; j < len(window); j++ {
			sum := window[i].NetAmount() + window[j].NetAmount()
			if withinTolerance(sum, target, tolerance) {
				return window[i], window[j], true
			}
		}
	}
	return nil, nil, false
}

// findTransactionPair is findAmountPair over statement lines.
func findTransactionPair(window []*statement.Transaction, target, tolerance int64) (*statement.Transaction, *statement.Transaction, bool) {
	for i := 0; i < len(window); i++ {
		for j := i + 1; j < len(window); j++ {
			sum := absAmount(window[i].Amount) + absAmount(window[j].Amount)
			if withinTolerance(sum, target, tolerance) {
				return window[i], window[j], true
			}
		}
	}
	return nil, nil, false
}

func withinTolerance(sum, target, tolerance int64) bool {
	diff := sum - target
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}

func absAmount(amount int64) int64 {
	if amount < 0 {
		return -amount
	}
	return amount
}

// daysApart counts whole calendar days between two timestamps.
func daysApart(a, b time.Time) int {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dayB.Sub(dayA).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
