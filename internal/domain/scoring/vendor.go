package scoring

import "strings"

// vendorAbbreviations expands the clipped vendor names banks print on
// statement lines to the full names books are usually kept under.
var vendorAbbreviations = map[string]string{
	"amzn":   "amazon",
	"wm":     "walmart",
	"wmt":    "walmart",
	"tgt":    "target",
	"sq":     "square",
	"sbux":   "starbucks",
	"msft":   "microsoft",
	"goog":   "google",
	"fb":     "facebook",
	"payp":   "paypal",
	"pp":     "paypal",
	"intuit": "intuit",
	"adp":    "adp",
	"ups":    "ups",
	"usps":   "usps",
	"fedex":  "fedex",
}

// noiseTokens are prefixes banks attach to descriptions that say nothing
// about who was paid.
var noiseTokens = map[string]bool{
	"pos":      true,
	"debit":    true,
	"credit":   true,
	"card":     true,
	"purchase": true,
	"payment":  true,
	"pmt":      true,
	"online":   true,
	"web":      true,
	"ach":      true,
	"dep":      true,
	"deposit":  true,
	"wd":       true,
	"transfer": true,
	"tfr":      true,
	"recur":    true,
	"recurring": true,
	"to":       true,
	"from":     true,
	"the":      true,
}

// ExtractVendor pulls the probable vendor token out of a statement or ledger
// description: the first normalized token that is not bank boilerplate or a
// bare number, with known abbreviations expanded. Returns "" when nothing
// usable is left.
func ExtractVendor(description string) string {
	for _, tok := range strings.Fields(Normalize(description)) {
		if noiseTokens[tok] || len(tok) < 2 || isNumeric(tok) {
			continue
		}
		if full, ok := vendorAbbreviations[tok]; ok {
			return full
		}
		return tok
	}
	return ""
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// vendorSimilarity scores two extracted vendor tokens 0-100: exact match,
// then containment (truncated names), then a fuzzy score that must clear a
// high bar before it counts at all.
func vendorSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 75
	}
	if ratio := editRatio(a, b); ratio > 80 {
		return ratio
	}
	return 0
}
