// Package matcher proposes correspondences between statement transactions
// and ledger entries.
//
// The single-match phase is one greedy forward pass: statement lines are
// walked in date order and each takes its best-scoring unclaimed ledger
// entry above the acceptance floor. There is no backtracking, so an early
// line can consume an entry that would have suited a later line better. A
// maximum-weight assignment would fix that; the greedy pass is kept because
// its proposals are stable, explainable, and fast.
//
// The optional combinatorial phase (multi.go) then looks for pairwise
// split-deposit and partial-payment combinations among the leftovers.
package matcher

import (
	"log/slog"
	"sort"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/scoring"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// Engine runs matching under one configuration.
type Engine struct {
	config scoring.Config
	scorer *scoring.Scorer
	logger *slog.Logger
}

// NewEngine creates a matching engine. patterns may be nil.
func NewEngine(config scoring.Config, patterns scoring.PatternSet, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config: config,
		scorer: scoring.NewScorer(config, patterns),
		logger: logger,
	}
}

// Run matches the given statement transactions against the given ledger
// entries and returns all proposed matches. Inputs are not mutated; entries
// in a terminal status are never considered.
func (e *Engine) Run(transactions []statement.Transaction, entries []ledger.Entry) *Result {
	result := &Result{
		Matches:      []Candidate{},
		MultiMatches: []MultiMatch{},
	}

	claimedTxs := make(map[string]bool)
	claimedEntries := make(map[string]bool)

	for _, idx := range dateOrdered(transactions) {
		tx := &transactions[idx]

		best := e.bestCandidate(tx, entries, claimedEntries)
		if best == nil {
			continue
		}

		claimedTxs[tx.ID] = true
		claimedEntries[best.EntryID] = true
		result.Matches = append(result.Matches, *best)
	}

	if e.config.EnableMultiTransactionMatching {
		result.MultiMatches = e.findMultiMatches(transactions, entries, claimedTxs, claimedEntries)
	}

	e.summarize(result, transactions, entries, claimedTxs)

	e.logger.Debug("matching run complete",
		"matches", len(result.Matches),
		"multi_matches", len(result.MultiMatches),
		"accuracy", result.Accuracy)

	return result
}

// bestCandidate scores tx against every unclaimed, matchable entry and
// returns the top candidate, or nil when nothing clears the floor.
func (e *Engine) bestCandidate(tx *statement.Transaction, entries []ledger.Entry, claimed map[string]bool) *Candidate {
	var candidates []Candidate

	for i := range entries {
		entry := &entries[i]
		if claimed[entry.ID] || !entry.Matchable() {
			continue
		}

		score := e.scorer.Score(tx, entry)
		if score == nil || score.Total < e.config.MinConfidenceScore {
			continue
		}

		candidates = append(candidates, Candidate{
			StatementID: tx.ID,
			EntryID:     entry.ID,
			Confidence:  scoring.Classify(score),
			Score:       score.Total,
			Factors:     score.Factors,
			Reasons:     scoring.Reasons(score),
		})
	}

	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return &candidates[0]
}

// dateOrdered returns transaction indices sorted by date ascending, ties
// broken by original input order so runs are deterministic.
func dateOrdered(transactions []statement.Transaction) []int {
	order := make([]int, len(transactions))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return transactions[order[a]].Date.Before(transactions[order[b]].Date)
	})
	return order
}

// summarize fills in the run summary and accuracy. Statement lines consumed
// by multi-matches count as matched.
func (e *Engine) summarize(result *Result, transactions []statement.Transaction, entries []ledger.Entry, claimedTxs map[string]bool) {
	matchedTxs := make(map[string]bool, len(claimedTxs))
	for id := range claimedTxs {
		matchedTxs[id] = true
	}
	for _, mm := range result.MultiMatches {
		for _, id := range mm.StatementIDs {
			matchedTxs[id] = true
		}
	}

	summary := Summary{
		TotalStatementLines:   len(transactions),
		TotalLedgerEntries:    len(entries),
		MatchedStatementLines: len(matchedTxs),
		ByConfidence:          make(map[scoring.Confidence]int),
	}

	for _, m := range result.Matches {
		summary.ByConfidence[m.Confidence]++
	}
	for _, mm := range result.MultiMatches {
		summary.ByConfidence[mm.Confidence]++
	}

	for _, tx := range transactions {
		amount := tx.Amount
		if amount < 0 {
			amount = -amount
		}
		if matchedTxs[tx.ID] {
			summary.MatchedAmount += amount
		} else {
			summary.UnmatchedAmount += amount
		}
	}

	result.Summary = summary
	if len(transactions) > 0 {
		result.Accuracy = float64(summary.MatchedStatementLines) / float64(len(transactions)) * 100
	}
}
