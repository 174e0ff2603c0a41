package scoring

// Confidence is the discrete trust tier of a proposed match.
type Confidence string

const (
	ConfidenceExact  Confidence = "exact"
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Rank orders tiers: exact > high > medium > low.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceExact:
		return 4
	case ConfidenceHigh:
		return 3
	case ConfidenceMedium:
		return 2
	case ConfidenceLow:
		return 1
	}
	return 0
}

// Tier thresholds. Callers discard anything below the acceptance floor
// before classification, so every score reaching Classify earns at least LOW.
const (
	exactDescriptionFloor = 90
	highScoreFloor        = 80
	highDateFloor         = 90
	highAmountFloor       = 95
	mediumScoreFloor      = 65
	mediumAmountFloor     = 90
)

// Classify maps a final score and its factor breakdown to a tier.
func Classify(score *Score) Confidence {
	f := score.Factors
	switch {
	case f.Date == 100 && f.Amount == 100 && f.Description >= exactDescriptionFloor:
		return ConfidenceExact
	case score.Total >= highScoreFloor && f.Date >= highDateFloor && f.Amount >= highAmountFloor:
		return ConfidenceHigh
	case score.Total >= mediumScoreFloor && f.Amount >= mediumAmountFloor:
		return ConfidenceMedium
	}
	return ConfidenceLow
}

// Per-factor reason thresholds.
const (
	reasonAmountExact   = 95
	reasonDateClose     = 50
	reasonDescStrong    = 80
	reasonDescSimilar   = 60
	reasonVendorMatch   = 75
	reasonPatternMatch  = 75
)

// Reasons derives human-readable explanations from the factor breakdown.
// Each factor is judged independently against fixed thresholds.
func Reasons(score *Score) []string {
	f := score.Factors
	var reasons []string

	if f.Amount >= reasonAmountExact {
		reasons = append(reasons, "amount matches exactly")
	} else if f.Amount > 0 {
		reasons = append(reasons, "amount is within tolerance")
	}

	if f.Date == 100 {
		reasons = append(reasons, "date matches exactly")
	} else if f.Date >= reasonDateClose {
		reasons = append(reasons, "dates are close together")
	}

	if f.Description >= reasonDescStrong {
		reasons = append(reasons, "description is very similar")
	} else if f.Description >= reasonDescSimilar {
		reasons = append(reasons, "description is similar")
	}

	if f.Vendor >= reasonVendorMatch {
		reasons = append(reasons, "vendor matches")
	}

	if f.Pattern >= reasonPatternMatch {
		reasons = append(reasons, "matches a learned pattern")
	}

	return reasons
}
