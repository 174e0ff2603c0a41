package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		score    Score
		expected Confidence
	}{
		{
			name: "exact needs perfect date and amount plus strong description",
			score: Score{
				Total:   95,
				Factors: FactorScores{Amount: 100, Date: 100, Description: 95},
			},
			expected: ConfidenceExact,
		},
		{
			name: "high when score and key factors clear their floors",
			score: Score{
				Total:   82,
				Factors: FactorScores{Amount: 96, Date: 92, Description: 50},
			},
			expected: ConfidenceHigh,
		},
		{
			name: "medium on solid amount with decent score",
			score: Score{
				Total:   68,
				Factors: FactorScores{Amount: 92, Date: 40, Description: 70},
			},
			expected: ConfidenceMedium,
		},
		{
			name: "low is the fallback above the acceptance floor",
			score: Score{
				Total:   55,
				Factors: FactorScores{Amount: 80, Date: 30, Description: 60},
			},
			expected: ConfidenceLow,
		},
		{
			name: "perfect date and amount but weak description is not exact",
			score: Score{
				Total:   78,
				Factors: FactorScores{Amount: 100, Date: 100, Description: 40},
			},
			expected: ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(&tt.score))
		})
	}
}

func TestConfidence_RankOrdering(t *testing.T) {
	assert.Greater(t, ConfidenceExact.Rank(), ConfidenceHigh.Rank())
	assert.Greater(t, ConfidenceHigh.Rank(), ConfidenceMedium.Rank())
	assert.Greater(t, ConfidenceMedium.Rank(), ConfidenceLow.Rank())
}

func TestReasons(t *testing.T) {
	score := &Score{
		Total: 95,
		Factors: FactorScores{
			Amount:      100,
			Date:        100,
			Description: 85,
			Vendor:      80,
			Pattern:     80,
		},
	}

	reasons := Reasons(score)

	assert.Contains(t, reasons, "amount matches exactly")
	assert.Contains(t, reasons, "date matches exactly")
	assert.Contains(t, reasons, "description is very similar")
	assert.Contains(t, reasons, "vendor matches")
	assert.Contains(t, reasons, "matches a learned pattern")
}

func TestReasons_WeakFactorsStaySilent(t *testing.T) {
	score := &Score{
		Total:   52,
		Factors: FactorScores{Amount: 85, Date: 20, Description: 30},
	}

	reasons := Reasons(score)

	assert.Contains(t, reasons, "amount is within tolerance")
	assert.NotContains(t, reasons, "date matches exactly")
	assert.NotContains(t, reasons, "vendor matches")
}
