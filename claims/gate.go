/*
gate.go - Validation gate for claim intake

PURPOSE:
  Combines document presence and ledger evidence into a single
  approve/decline verdict. This is the one shared gate implementation;
  both the ledger-review surface and the adjudication orchestrator call it.

SEMANTICS:
  The gate is a pure, total function. A claim passes iff every required
  document is present AND first-month rent AND the first-month SDI premium
  were evidenced in the ledger. Any unmet condition is equally fatal, but
  all unmet conditions are reported together - never short-circuited - so
  callers can show the complete reason list.
*/
package claims

import (
	"fmt"
	"sort"
	"strings"
)

// Gate status display labels.
const (
	GateApproved = "Approved"
	GateDeclined = "Declined"
)

// ValidateGate combines document presence and ledger evidence into a verdict.
func ValidateGate(docs DocumentPresence, ledger LedgerEvidence) GateResult {
	missing := []string{}
	for _, d := range RequiredDocuments {
		if !docs[d] {
			missing = append(missing, d)
		}
	}
	sort.Strings(missing)

	approved := len(missing) == 0 && ledger.FirstMonthRentPaid && ledger.FirstMonthSDIPremiumPaid

	status := GateDeclined
	if approved {
		status = GateApproved
	}

	return GateResult{
		Approved:         approved,
		MissingDocuments: missing,
		Status:           status,
		RentEvidence:     ledger.FirstMonthRentEvidence,
		SDIEvidence:      ledger.FirstMonthSDIPremiumEvidence,
		RentPaid:         ledger.FirstMonthRentPaid,
		SDIPaid:          ledger.FirstMonthSDIPremiumPaid,
	}
}

// Summary builds the decision summary sentence(s) for a gate result:
// a confirmation when approved, otherwise one sentence per unmet condition.
func (g GateResult) Summary() string {
	if g.Approved {
		return "All required documents are present. " +
			"First-month rent and SDI premium were confirmed in the tenant ledger."
	}

	var reasons []string
	if len(g.MissingDocuments) > 0 {
		reasons = append(reasons, fmt.Sprintf("Missing required file(s): %s", strings.Join(g.MissingDocuments, ", ")))
	}
	if !g.RentPaid {
		reasons = append(reasons, "First-month rent not found in ledger.")
	}
	if !g.SDIPaid {
		reasons = append(reasons, "First-month SDI premium not found in ledger.")
	}
	if len(reasons) == 0 {
		return "One or more approval conditions were not met."
	}
	return strings.Join(reasons, " ")
}

// FormatReport renders the bullet-point human-readable gate report shown
// to reviewers alongside the structured result.
func (g GateResult) FormatReport() string {
	return strings.Join([]string{
		fmt.Sprintf("• First Month Paid: %t", g.RentPaid),
		fmt.Sprintf("• First Month Paid Evidence: %s", g.RentEvidence),
		fmt.Sprintf("• First Month SDI Premium Paid: %t", g.SDIPaid),
		fmt.Sprintf("• First Month SDI Premium Paid Evidence: %s", g.SDIEvidence),
		fmt.Sprintf("• Missing documents: %v", g.MissingDocuments),
		fmt.Sprintf("• Status: %s", g.Status),
		fmt.Sprintf("• Summary of decision: %s", g.Summary()),
	}, "\n")
}
