// Package scoring turns a (statement line, ledger entry) pair into a
// weighted 0-100 score with a per-factor breakdown, and classifies accepted
// scores into discrete confidence tiers.
//
// Scoring is pure: no I/O, no clock, no mutation of its inputs.
package scoring

import (
	"time"

	"github.com/clearledger/reconciliation-backend/internal/domain/ledger"
	"github.com/clearledger/reconciliation-backend/internal/domain/statement"
)

// FactorScores is the per-factor breakdown of a candidate score.
// Each factor is 0-100 before weighting.
type FactorScores struct {
	Amount      float64 `json:"amount"`
	Date        float64 `json:"date"`
	Description float64 `json:"description"`
	Vendor      float64 `json:"vendor"`
	Pattern     float64 `json:"pattern"`
}

// Score is the result of scoring one candidate pair.
type Score struct {
	Total   float64
	Factors FactorScores
}

// Scorer scores candidate pairs under one tolerance configuration and an
// optional set of learned vendor patterns.
type Scorer struct {
	config   Config
	patterns PatternSet
}

// NewScorer creates a scorer. patterns may be nil; the pattern factor then
// contributes nothing.
func NewScorer(config Config, patterns PatternSet) *Scorer {
	if !config.UsePatternLearning {
		patterns = nil
	}
	return &Scorer{config: config, patterns: patterns}
}

// Score scores one statement line against one ledger entry.
//
// The amount factor is a hard gate: when the amount difference exceeds the
// configured tolerance the pair cannot be the same money, and Score returns
// nil without computing anything else.
func (s *Scorer) Score(tx *statement.Transaction, entry *ledger.Entry) *Score {
	amountScore, ok := s.scoreAmount(tx.Amount, entry.NetAmount())
	if !ok {
		return nil
	}

	factors := FactorScores{
		Amount:      amountScore,
		Date:        s.scoreDate(tx.Date, entry.Date),
		Description: s.scoreDescription(tx.Description, entry.Description),
	}
	factors.Vendor = vendorSimilarity(ExtractVendor(tx.Description), ExtractVendor(entry.Description))
	if s.patterns != nil {
		factors.Pattern = scorePattern(s.patterns, tx.Description, entry.Description, entry.NetAmount(), entry.Date)
	}

	total := factors.Amount*weightAmount +
		factors.Date*weightDate +
		factors.Description*weightDescription +
		factors.Vendor*weightVendor +
		factors.Pattern*weightPattern

	return &Score{Total: total, Factors: factors}
}

// scoreAmount gates on the amount tolerance and scales linearly inside it:
// 100 at an exact match, 0 at the boundary. The second return is false when
// the gate rejects the pair.
func (s *Scorer) scoreAmount(statementAmount, ledgerNet int64) (float64, bool) {
	magnitude := statementAmount
	if magnitude < 0 {
		magnitude = -magnitude
	}

	diff := magnitude - ledgerNet
	if diff < 0 {
		diff = -diff
	}

	tolerance := float64(magnitude) * s.config.AmountTolerancePercent / 100
	if float64(diff) > tolerance {
		return 0, false
	}
	if diff == 0 {
		return 100, true
	}
	return 100 * (1 - float64(diff)/tolerance), true
}

// scoreDate gives 100 on the same calendar day, decaying linearly to 0 at
// the day-tolerance boundary.
func (s *Scorer) scoreDate(statementDate, ledgerDate time.Time) float64 {
	days := calendarDaysApart(statementDate, ledgerDate)
	if days == 0 {
		return 100
	}
	if days > s.config.DateToleranceDays {
		return 0
	}
	return 100 * (1 - float64(days)/float64(s.config.DateToleranceDays))
}

// scoreDescription applies the similarity floor: weak resemblance is
// indistinguishable from coincidence and contributes nothing.
func (s *Scorer) scoreDescription(a, b string) float64 {
	similarity := descriptionSimilarity(a, b)
	if similarity < s.config.DescriptionSimilarityThreshold {
		return 0
	}
	return similarity
}

// calendarDaysApart counts whole calendar days between two timestamps,
// ignoring time of day.
func calendarDaysApart(a, b time.Time) int {
	dayA := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	dayB := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(dayB.Sub(dayA).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}
