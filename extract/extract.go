/*
Package extract provides the heuristic fallback charge parser.

PURPOSE:
  When the primary charge extractor is unavailable, this package scans
  already-extracted document text line by line and produces charges in the
  shape the rules engine consumes. It is deliberately conservative: a token
  only counts as money when it carries a dollar sign or explicit cents, so
  unit numbers and dates never become charges.

DEPOSIT HANDLING:
  Lines referencing a deposit are never treated as charges. Instead they
  contribute claim metadata: an explicit security-deposit amount when one
  is printed, or a marker when the text says the deposit equals one month's
  rent (the caller computes the value; this parser does not).

OUT OF SCOPE:
  PDF-to-text conversion and LLM-based extraction happen upstream. This
  package consumes plain text only.

SEE ALSO:
  - claims/types.go: The Charge shape produced here
  - claims/rules.go: The engine these charges feed
*/
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/harbor/claims-engine/claims"
	"github.com/shopspring/decimal"
)

// maxCharges bounds the fallback output so a pathological document cannot
// flood the adjudication payload.
const maxCharges = 200

// descriptionLimit truncates charge descriptions taken from raw lines.
const descriptionLimit = 140

// =============================================================================
// INPUT / OUTPUT TYPES
// =============================================================================

// Document is one already-extracted text document.
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Metadata is claim-level data recovered as a side effect of parsing.
type Metadata struct {
	// DepositAmount is the first explicit security-deposit amount found,
	// nil if none.
	DepositAmount *decimal.Decimal `json:"deposit_amount"`

	// DepositEqualsOneMonthRent is set when the text states the deposit
	// equals one month's rent without printing a number.
	DepositEqualsOneMonthRent bool `json:"deposit_equals_one_month_rent,omitempty"`
}

// Result bundles the parsed charges with recovered metadata.
type Result struct {
	Charges  []claims.Charge `json:"charges"`
	Metadata Metadata        `json:"metadata"`
}

// =============================================================================
// VOCABULARIES
// =============================================================================

var depositPhrases = []string{
	"security deposit", "sec dep", "sec. dep", "sec deposit", "sec. deposit",
	"deposit amount", "deposit:", "deposit -", "deposit due",
}

// depositAppliedPattern catches "Deposit Applied: $500" style lines.
var depositAppliedPattern = regexp.MustCompile(`(?i)(deposit\s+applied|applied\s+deposit)\s*[:\-]?\s*\$?\s*([\d,]+(?:\.\d{2})?)`)

var moneyTokenPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)

var beyondWearHints = []string{"stain", "hole", "broken", "damage"}

// categoryHints are consulted in order; first hit wins.
var categoryHints = []struct {
	keywords []string
	category string
}{
	{[]string{"rekey", "lock", "key"}, claims.CategoryRekey},
	{[]string{"carpet", "clean", "trash", "wipe", "deep clean"}, claims.CategoryCleaning},
	{[]string{"lawn", "yard", "mulch", "sod", "landscap"}, claims.CategoryLandscaping},
	{[]string{"utility", "water", "electric", "gas", "power"}, claims.CategoryUtilities},
	{[]string{"rent"}, claims.CategoryUnpaidRent},
	{[]string{"lease break", "relist"}, claims.CategoryLeaseBreak},
	{[]string{
		"late fee", "convenience fee", "administrative fee", "admin fee",
		"coordination fee", "maintenance coordination fee",
		"animal fee", "pet fee",
	}, "non_refundable_fee"},
	{[]string{"pet"}, "pet_damage"},
}

// =============================================================================
// PARSING
// =============================================================================

// Parse scans the documents and returns fallback charges plus metadata.
// It never fails; unusable lines are skipped.
func Parse(docs []Document) Result {
	res := Result{Charges: []claims.Charge{}}

	for _, d := range docs {
		for _, raw := range strings.Split(d.Text, "\n") {
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			lower := strings.ToLower(line)

			// Deposit lines are metadata, never charges. The bare
			// substring catches any deposit mention; IsDepositLine adds
			// the "sec dep" abbreviations that do not contain the word.
			if strings.Contains(lower, "deposit") || IsDepositLine(line) {
				if amts := moneyAmounts(line); len(amts) > 0 && res.Metadata.DepositAmount == nil {
					amt := amts[0]
					res.Metadata.DepositAmount = &amt
				} else if strings.Contains(lower, "one month") && strings.Contains(lower, "rent") {
					res.Metadata.DepositEqualsOneMonthRent = true
				}
				continue
			}

			amts := moneyAmounts(line)
			if len(amts) == 0 {
				continue
			}

			desc := truncateDescription(line)
			cat := guessCategory(lower)
			wear := guessWear(lower)

			for _, a := range amts {
				if len(res.Charges) >= maxCharges {
					return res
				}
				res.Charges = append(res.Charges, claims.Charge{
					Category:    cat,
					Description: desc,
					Amount:      a,
					Status:      claims.StatusUnpaid,
					Wear:        wear,
					Source:      d.Filename,
				})
			}
		}
	}

	return res
}

// truncateDescription caps a description at descriptionLimit bytes without
// splitting a multi-byte rune.
func truncateDescription(line string) string {
	if len(line) <= descriptionLimit {
		return line
	}
	cut := descriptionLimit
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut]
}

// IsDepositLine reports whether a line references the security deposit.
func IsDepositLine(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range depositPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return depositAppliedPattern.MatchString(line)
}

// moneyAmounts extracts positive monetary values from a line. A numeric
// token only counts when it has explicit cents or a dollar sign within the
// two characters before it.
func moneyAmounts(line string) []decimal.Decimal {
	var amounts []decimal.Decimal
	for _, loc := range moneyTokenPattern.FindAllStringIndex(line, -1) {
		token := line[loc[0]:loc[1]]
		hasDecimal := strings.Contains(token, ".")

		prefixStart := loc[0] - 2
		if prefixStart < 0 {
			prefixStart = 0
		}
		hasDollar := strings.Contains(line[prefixStart:loc[0]], "$")

		if !hasDecimal && !hasDollar {
			continue
		}
		v, err := decimal.NewFromString(strings.ReplaceAll(token, ",", ""))
		if err != nil || !v.IsPositive() {
			continue
		}
		amounts = append(amounts, v)
	}
	return amounts
}

func guessCategory(lower string) string {
	for _, hint := range categoryHints {
		for _, k := range hint.keywords {
			if strings.Contains(lower, k) {
				return hint.category
			}
		}
	}
	if strings.Contains(lower, "wear") && strings.Contains(lower, "normal") {
		return claims.CategoryNormalWear
	}
	return "unknown"
}

func guessWear(lower string) string {
	if strings.Contains(lower, "normal wear") {
		return claims.WearNormal
	}
	for _, k := range beyondWearHints {
		if strings.Contains(lower, k) {
			return claims.WearBeyond
		}
	}
	return ""
}
