package scoring

import (
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Normalize lowercases s and strips everything that is not a letter or
// digit, collapsing runs of stripped characters into single spaces.
func Normalize(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
		} else if !lastSpace {
			b.WriteByte(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// normalizeCompact is Normalize without the spaces, for substring comparison.
func normalizeCompact(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}

// tokenOverlapRatio returns 0-100: the share of tokens the two normalized
// strings have in common, relative to the larger token set. Robust to
// reordered words ("AMAZON MARKETPLACE" vs "MARKETPLACE AMAZON").
func tokenOverlapRatio(a, b string) float64 {
	tokensA := strings.Fields(Normalize(a))
	tokensB := strings.Fields(Normalize(b))
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = true
	}

	shared := 0
	seen := make(map[string]bool, len(tokensB))
	for _, tok := range tokensB {
		if setA[tok] && !seen[tok] {
			shared++
			seen[tok] = true
		}
	}

	larger := len(setA)
	if len(tokensB) > larger {
		larger = len(tokensB)
	}
	return float64(shared) / float64(larger) * 100
}

// partialRatio returns 0-100: the best edit-distance similarity between the
// shorter normalized string and any equal-length window of the longer one.
// Robust to truncation ("AMZN MKTP US*1234" vs "AMZN MKTP").
func partialRatio(a, b string) float64 {
	shorter := []rune(normalizeCompact(a))
	longer := []rune(normalizeCompact(b))
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		window := longer[i : i+len(shorter)]
		ratio := levenshtein.RatioForStrings(shorter, window, levenshtein.DefaultOptions)
		if ratio > best {
			best = ratio
		}
	}
	return best * 100
}

// editRatio returns 0-100 edit-distance similarity between full normalized
// strings.
func editRatio(a, b string) float64 {
	na := []rune(normalizeCompact(a))
	nb := []rune(normalizeCompact(b))
	if len(na) == 0 && len(nb) == 0 {
		return 0
	}
	return levenshtein.RatioForStrings(na, nb, levenshtein.DefaultOptions) * 100
}

// descriptionSimilarity scores two raw descriptions 0-100. Identical after
// normalization is a perfect score; otherwise the best of the two fuzzy
// measures wins, so either reordering or truncation alone cannot sink a
// genuine match.
func descriptionSimilarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 100
	}

	token := tokenOverlapRatio(a, b)
	partial := partialRatio(a, b)
	if token > partial {
		return token
	}
	return partial
}
