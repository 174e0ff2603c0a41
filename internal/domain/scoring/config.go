package scoring

// Config holds the tolerances and switches for candidate scoring.
type Config struct {
	// DateToleranceDays is how many days apart a statement line and ledger
	// entry may be and still count as a date match.
	DateToleranceDays int

	// AmountTolerancePercent is the maximum amount difference, as a percent
	// of the statement amount, before a candidate is rejected outright.
	AmountTolerancePercent float64

	// DescriptionSimilarityThreshold is the floor below which description
	// similarity contributes nothing.
	DescriptionSimilarityThreshold float64

	// MinConfidenceScore is the acceptance floor: candidates scoring below
	// it are never returned.
	MinConfidenceScore float64

	// UsePatternLearning enables the learned vendor pattern factor.
	UsePatternLearning bool

	// EnableMultiTransactionMatching enables the split-deposit and
	// partial-payment phase on greedy leftovers.
	EnableMultiTransactionMatching bool
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		DateToleranceDays:              3,
		AmountTolerancePercent:         0.5,
		DescriptionSimilarityThreshold: 60,
		MinConfidenceScore:             50,
		UsePatternLearning:             true,
		EnableMultiTransactionMatching: true,
	}
}

// Factor weights. Amount dominates because a wrong amount is never the same
// money; the pattern factor is a nudge, not a decider.
const (
	weightAmount      = 0.40
	weightDate        = 0.25
	weightDescription = 0.20
	weightVendor      = 0.10
	weightPattern     = 0.05
)
