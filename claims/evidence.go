/*
evidence.go - Tenant-ledger text scanning

PURPOSE:
  Scans free-form tenant-ledger text for evidence that first-month rent and
  the first-month SDI premium were paid. The gate requires both.

ALGORITHM:
  Two-phase scan over non-empty, trimmed lines:

  Phase 1 (strict): the first line containing a rent (or SDI) hint phrase
  AND corroboration - a currency-shaped token or a payment-mention word -
  is recorded as evidence. Scanning stops once both are found.

  Phase 2 (fallback): for whichever flag is still unset, accept the first
  line merely containing the hint phrase, no corroboration required.

  The preference order exists so corroborated evidence wins when available,
  but a formatting quirk never causes a false negative on an
  otherwise-present mention.
*/
package claims

import (
	"regexp"
	"strings"
)

// =============================================================================
// HINT VOCABULARIES
// =============================================================================

var rentHints = []string{"rent", "base rent", "monthly rent", "1st month rent", "first month rent"}

var sdiHints = []string{"sdi", "security deposit insurance", "deposit insurance premium", "sdi premium"}

var paidHints = []string{"paid", "received", "collected", "posted", "credit"}

// moneyPattern matches currency-shaped tokens: digits with optional thousands
// separators and cents, optional leading dollar sign.
var moneyPattern = regexp.MustCompile(`\$?\s?\d{1,3}(?:,\d{3})*(?:\.\d{2})?`)

var whitespacePattern = regexp.MustCompile(`\s+`)

// NormalizeText collapses all runs of whitespace to single spaces and trims.
// Evidence strings are stored in this form.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

func lineMatches(line string, needles []string) bool {
	l := strings.ToLower(line)
	for _, n := range needles {
		if strings.Contains(l, n) {
			return true
		}
	}
	return false
}

// =============================================================================
// EXTRACTION
// =============================================================================

// ExtractLedgerEvidence scans ledger text for first-month rent and SDI
// premium payment evidence. The lease-start-date hint is accepted for
// future use by date-aware matching; the current scan does not consult it.
// Empty text yields all-false with empty evidence, never an error.
func ExtractLedgerEvidence(ledgerText string, leaseStartDate string) LedgerEvidence {
	_ = leaseStartDate

	var lines []string
	for _, l := range strings.Split(ledgerText, "\n") {
		if t := strings.TrimSpace(l); t != "" {
			lines = append(lines, t)
		}
	}

	var ev LedgerEvidence

	// Phase 1: hint plus corroboration (money token or payment mention).
	for _, line := range lines {
		hasMoney := moneyPattern.MatchString(line)
		paidMention := lineMatches(line, paidHints)

		if !ev.FirstMonthRentPaid && lineMatches(line, rentHints) && (hasMoney || paidMention) {
			ev.FirstMonthRentPaid = true
			ev.FirstMonthRentEvidence = NormalizeText(line)
		}
		if !ev.FirstMonthSDIPremiumPaid && lineMatches(line, sdiHints) && (hasMoney || paidMention) {
			ev.FirstMonthSDIPremiumPaid = true
			ev.FirstMonthSDIPremiumEvidence = NormalizeText(line)
		}
		if ev.FirstMonthRentPaid && ev.FirstMonthSDIPremiumPaid {
			break
		}
	}

	// Phase 2: bare hint fallback for whichever is still missing.
	if !ev.FirstMonthRentPaid {
		for _, line := range lines {
			if lineMatches(line, rentHints) {
				ev.FirstMonthRentPaid = true
				ev.FirstMonthRentEvidence = NormalizeText(line)
				break
			}
		}
	}
	if !ev.FirstMonthSDIPremiumPaid {
		for _, line := range lines {
			if lineMatches(line, sdiHints) {
				ev.FirstMonthSDIPremiumPaid = true
				ev.FirstMonthSDIPremiumEvidence = NormalizeText(line)
				break
			}
		}
	}

	return ev
}
