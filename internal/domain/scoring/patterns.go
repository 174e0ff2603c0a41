package scoring

import (
	"strings"
	"time"
)

// Pattern is what the engine has learned about one vendor from previously
// confirmed matches: how confident past matches were, what the ledger side
// usually says, and what amounts and billing days to expect.
type Pattern struct {
	Vendor               string   `json:"vendor"`
	Confidence           float64  `json:"confidence"` // 0-100
	DescriptionFragments []string `json:"description_fragments"`
	MinAmount            int64    `json:"min_amount"`
	MaxAmount            int64    `json:"max_amount"`
	TypicalDayOfMonth    int      `json:"typical_day_of_month"`
}

// PatternSet maps normalized vendor name to its learned pattern.
// Keyed lookup keeps the pattern factor O(1) per candidate.
type PatternSet map[string]Pattern

// Lookup finds the pattern for the vendor extracted from a description.
func (p PatternSet) Lookup(description string) (Pattern, bool) {
	vendor := ExtractVendor(description)
	if vendor == "" {
		return Pattern{}, false
	}
	pattern, ok := p[vendor]
	return pattern, ok
}

// ConfirmedMatch is one historical statement-to-ledger match used as
// training input for pattern building.
type ConfirmedMatch struct {
	StatementDescription string
	LedgerDescription    string
	Amount               int64 // ledger net amount, minor units
	Date                 time.Time
}

// Pattern building tuning. Confidence starts modest for a vendor seen once
// and grows with repetition, never past the cap.
const (
	patternBaseConfidence     = 70.0
	patternConfidencePerMatch = 5.0
	patternConfidenceCap      = 95.0
	patternMaxFragments       = 5
)

// BuildPatterns derives a PatternSet from previously confirmed matches,
// grouped by extracted statement vendor. Matches with no extractable vendor
// are skipped.
func BuildPatterns(history []ConfirmedMatch) PatternSet {
	type accum struct {
		count     int
		fragments []string
		minAmount int64
		maxAmount int64
		dayCounts map[int]int
	}

	byVendor := make(map[string]*accum)
	for _, m := range history {
		vendor := ExtractVendor(m.StatementDescription)
		if vendor == "" {
			continue
		}

		acc, ok := byVendor[vendor]
		if !ok {
			acc = &accum{
				minAmount: m.Amount,
				maxAmount: m.Amount,
				dayCounts: make(map[int]int),
			}
			byVendor[vendor] = acc
		}

		acc.count++
		if m.Amount < acc.minAmount {
			acc.minAmount = m.Amount
		}
		if m.Amount > acc.maxAmount {
			acc.maxAmount = m.Amount
		}
		acc.dayCounts[m.Date.Day()]++

		fragment := Normalize(m.LedgerDescription)
		if fragment != "" && len(acc.fragments) < patternMaxFragments && !containsString(acc.fragments, fragment) {
			acc.fragments = append(acc.fragments, fragment)
		}
	}

	patterns := make(PatternSet, len(byVendor))
	for vendor, acc := range byVendor {
		confidence := patternBaseConfidence + float64(acc.count-1)*patternConfidencePerMatch
		if confidence > patternConfidenceCap {
			confidence = patternConfidenceCap
		}

		typicalDay := 0
		bestCount := 0
		for day, count := range acc.dayCounts {
			if count > bestCount || (count == bestCount && day < typicalDay) {
				typicalDay = day
				bestCount = count
			}
		}

		patterns[vendor] = Pattern{
			Vendor:               vendor,
			Confidence:           confidence,
			DescriptionFragments: acc.fragments,
			MinAmount:            acc.minAmount,
			MaxAmount:            acc.maxAmount,
			TypicalDayOfMonth:    typicalDay,
		}
	}
	return patterns
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Pattern factor bonuses on top of the stored confidence.
const (
	patternFragmentBonus = 10.0
	patternAmountBonus   = 5.0
	patternDayBonus      = 5.0
)

// scorePattern computes the pattern factor for a (statement, ledger) pair:
// the stored confidence plus bonuses when the ledger side looks like what
// this vendor has looked like before.
func scorePattern(patterns PatternSet, statementDescription, ledgerDescription string, ledgerNet int64, ledgerDate time.Time) float64 {
	pattern, ok := patterns.Lookup(statementDescription)
	if !ok {
		return 0
	}

	score := pattern.Confidence

	normalized := Normalize(ledgerDescription)
	for _, fragment := range pattern.DescriptionFragments {
		if strings.Contains(normalized, fragment) {
			score += patternFragmentBonus
			break
		}
	}

	if ledgerNet >= pattern.MinAmount && ledgerNet <= pattern.MaxAmount {
		score += patternAmountBonus
	}

	if pattern.TypicalDayOfMonth != 0 && ledgerDate.Day() == pattern.TypicalDayOfMonth {
		score += patternDayBonus
	}

	if score > 100 {
		score = 100
	}
	return score
}
