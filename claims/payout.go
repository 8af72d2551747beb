/*
payout.go - Payout finalization and readiness

PURPOSE:
  FinalizePayout clips the approved total to the policy's maximum benefit.
  CheckReadiness decides whether enough claim metadata exists to state a
  binding final payout rather than an estimate.

NOTE ON NEGATIVE MAX BENEFIT:
  FinalizePayout is total: a negative max benefit acts as a hard cap and
  produces a negative payout. Callers validate non-negativity upstream
  (see AdjudicationRequest.Validate).
*/
package claims

import "github.com/shopspring/decimal"

// FinalizePayout returns min(totalApproved, maxBenefit) rounded to 2 places.
// A nil maxBenefit is treated as zero.
func FinalizePayout(totalApproved decimal.Decimal, maxBenefit *decimal.Decimal) decimal.Decimal {
	benefit := decimal.Zero
	if maxBenefit != nil {
		benefit = *maxBenefit
	}
	return decimal.Min(totalApproved, benefit).Round(2)
}

// =============================================================================
// READINESS
// =============================================================================

// ReadinessInput carries the candidate payload fields the readiness check
// inspects. Jurisdiction falls back to LeaseState; that rule is stated here
// once, not re-derived by callers.
type ReadinessInput struct {
	DepositAmount *decimal.Decimal
	MoveOutDate   string
	Jurisdiction  string
	LeaseState    string
}

// CheckReadiness lists, in fixed order, the fields still needed for a final
// payout. Ready means the list is empty.
func CheckReadiness(in ReadinessInput) ReadinessResult {
	effective := in.Jurisdiction
	if effective == "" {
		effective = in.LeaseState
	}

	missing := []string{}
	if in.DepositAmount == nil || in.DepositAmount.IsZero() {
		missing = append(missing, "deposit_amount")
	}
	if in.MoveOutDate == "" {
		missing = append(missing, "move_out_date")
	}
	if effective == "" {
		missing = append(missing, "jurisdiction")
	}

	return ReadinessResult{
		Ready:                 len(missing) == 0,
		Missing:               missing,
		EffectiveJurisdiction: effective,
	}
}
