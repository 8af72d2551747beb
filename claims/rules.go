/*
rules.go - Policy rules engine

PURPOSE:
  Applies per-category inclusion/exclusion/cap rules to a charge list and
  produces the approved/excluded breakdown with a total. This is the heart
  of adjudication: the rule order is business policy and must not change.

PROCESSING MODEL:
  A single left-to-right pass over the charges with two pieces of running
  state, landscaping_used and rent_used, both scoped to one Apply call.
  Caps accumulate across all charges of a category within the request,
  never across requests. Per charge, in order:

    1. Payment-status filter (only unpaid/overdue are considered)
    2. Hard policy exclusions, checked on the ORIGINAL category
    3. Normal-wear exclusion for cleaning/normal_wear charges
    4. Category normalization via the classifier (synonyms)
    5. Category dispatch, first match wins

  A charge over a running cap is split: the capped portion is approved and
  the remainder is excluded, each with its own reason.

SEE ALSO:
  - classify.go: Step 4 normalization
  - config.go: The tables every step consults
  - payout.go: Clipping the total to the policy max benefit
*/
package claims

import "github.com/shopspring/decimal"

// Reason strings attached to approved and excluded line items. These are
// stable display values; claim reviewers and downstream reporting key off
// the exact wording.
const (
	ReasonPaidNotOverdue  = "Paid/Not overdue"
	ReasonPolicyExclusion = "Policy exclusion"
	ReasonNormalWear      = "Normal wear and tear"
	ReasonBeyondWear      = "Beyond normal wear and tear"
	ReasonUnspecifiedWear = "Unspecified/normal wear"
	ReasonMoveOutRekey    = "Move-out rekey"
	ReasonLandscapingCap  = "Capped at $500"
	ReasonOverLandscaping = "Over $500 cap"
	ReasonCovered         = "Covered"
	ReasonRentCap         = "Capped at one month rent"
	ReasonOverRentCap     = "Over one month rent"
	ReasonAccelerated     = "Exception: accelerated move-out"
	ReasonLinkedOccupancy = "Linked to occupancy/lease obligations"
	ReasonNotLinked       = "Exclude unless clearly linked"
	ReasonUnknownCategory = "Unknown category (exclude)"
)

// RulesEngine applies coverage policy to charge lists. Stateless across
// calls; safe for concurrent use.
type RulesEngine struct {
	cfg        RulesConfig
	classifier *Classifier
}

// NewRulesEngine builds an engine over the given rule tables.
func NewRulesEngine(cfg RulesConfig) *RulesEngine {
	return &RulesEngine{cfg: cfg, classifier: NewClassifier(cfg)}
}

// Classifier exposes the engine's classifier for callers that need
// standalone normalization.
func (e *RulesEngine) Classifier() *Classifier {
	return e.classifier
}

// Apply runs the policy over charges in order and returns the decision.
// All running state is local to this call.
func (e *RulesEngine) Apply(charges []Charge, monthlyRent decimal.Decimal) Decision {
	decision := Decision{
		Approved: []LineItem{},
		Excluded: []LineItem{},
	}
	landscapingUsed := decimal.Zero
	rentUsed := decimal.Zero

	for _, c := range charges {
		amt := c.Amount
		desc := c.Description

		// 1. Only unpaid/overdue charges are considered.
		if !c.Considered() {
			decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonPaidNotOverdue})
			continue
		}

		cat := c.NormalizedCategory()
		wear := c.NormalizedWear()

		// 2. Hard exclusions, on the original pre-synonym category.
		if containsString(e.cfg.HardExclusions, cat) {
			decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonPolicyExclusion})
			continue
		}

		// 3. Explicit normal wear on cleaning-type charges.
		if (cat == CategoryCleaning || cat == CategoryNormalWear) && wear == WearNormal {
			decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonNormalWear})
			continue
		}

		// 4. Synonym-based normalization. Category may change here.
		cat = e.classifier.Normalize(cat, desc)

		// 5. Dispatch.
		switch cat {
		case CategoryCleaning:
			if wear == WearBeyond || (wear == "" && e.classifier.LooksBeyondWear(desc)) {
				decision.Approved = append(decision.Approved, LineItem{"Cleaning – " + desc, amt, ReasonBeyondWear})
			} else {
				decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonUnspecifiedWear})
			}

		case CategoryRekey:
			decision.Approved = append(decision.Approved, LineItem{"Rekey – " + desc, amt, ReasonMoveOutRekey})

		case CategoryLandscaping:
			cap := capRemaining(amt, e.cfg.LandscapingCap, landscapingUsed)
			if cap.IsPositive() {
				decision.Approved = append(decision.Approved, LineItem{"Landscaping – " + desc, cap, ReasonLandscapingCap})
				if amt.GreaterThan(cap) {
					decision.Excluded = append(decision.Excluded, LineItem{desc, amt.Sub(cap), ReasonOverLandscaping})
				}
				landscapingUsed = landscapingUsed.Add(cap)
			} else {
				decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonOverLandscaping})
			}

		case CategoryUtilities, CategoryUnpaidUtilities:
			decision.Approved = append(decision.Approved, LineItem{"Unpaid Utilities – " + desc, amt, ReasonCovered})

		case CategoryUnpaidRent:
			cap := capRemaining(amt, monthlyRent, rentUsed)
			if cap.IsPositive() {
				decision.Approved = append(decision.Approved, LineItem{"Unpaid Rent – " + desc, cap, ReasonRentCap})
				if amt.GreaterThan(cap) {
					decision.Excluded = append(decision.Excluded, LineItem{desc, amt.Sub(cap), ReasonOverRentCap})
				}
				rentUsed = rentUsed.Add(cap)
			} else {
				decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonOverRentCap})
			}

		case CategoryLeaseBreak, CategoryRelistingFee, CategoryLeaseBreakFee:
			if c.AcceleratedMoveout {
				// Uncapped exception; does not consume the rent cap.
				decision.Approved = append(decision.Approved, LineItem{"Lease Break Fee (Accelerated) – " + desc, amt, ReasonAccelerated})
			} else {
				// Capped at one month rent, but independent of rent_used.
				cap := decimal.Min(amt, monthlyRent)
				decision.Approved = append(decision.Approved, LineItem{"Lease Break Fee – " + desc, cap, ReasonRentCap})
				if amt.GreaterThan(cap) {
					decision.Excluded = append(decision.Excluded, LineItem{desc, amt.Sub(cap), ReasonOverRentCap})
				}
			}

		case CategoryProratedRent:
			if c.LinkedToOccupancy {
				decision.Approved = append(decision.Approved, LineItem{"Prorated Rent – " + desc, amt, ReasonLinkedOccupancy})
			} else {
				decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonNotLinked})
			}

		default:
			decision.Excluded = append(decision.Excluded, LineItem{desc, amt, ReasonUnknownCategory})
		}
	}

	total := decimal.Zero
	for _, a := range decision.Approved {
		total = total.Add(a.Amount)
	}
	decision.TotalApproved = total.Round(2)

	return decision
}

// capRemaining returns how much of amount fits under limit given what has
// already been used, floored at zero.
func capRemaining(amount, limit, used decimal.Decimal) decimal.Decimal {
	remaining := limit.Sub(used)
	cap := decimal.Min(amount, remaining)
	if cap.IsNegative() {
		return decimal.Zero
	}
	return cap
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
