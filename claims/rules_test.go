package claims_test

import (
	"testing"

	"github.com/harbor/claims-engine/claims"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newEngine() *claims.RulesEngine {
	return claims.NewRulesEngine(claims.DefaultRulesConfig())
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func unpaid(category, desc string, amount float64) claims.Charge {
	return claims.Charge{
		Category:    category,
		Description: desc,
		Amount:      money(amount),
		Status:      claims.StatusUnpaid,
	}
}

func rent1000() decimal.Decimal { return money(1000) }

func approvedTotal(d claims.Decision) decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Approved {
		total = total.Add(a.Amount)
	}
	return total
}

// =============================================================================
// PAYMENT-STATUS FILTER
// =============================================================================

func TestRules_PaidCharge_AlwaysExcluded(t *testing.T) {
	// GIVEN: A paid charge in an otherwise coverable category
	// WHEN: Applying policy
	// THEN: Excluded with "Paid/Not overdue", regardless of category

	e := newEngine()
	for _, cat := range []string{"rekey", "cleaning", "unpaid_rent", "landscaping"} {
		c := unpaid(cat, "desc", 100)
		c.Status = claims.StatusPaid

		d := e.Apply([]claims.Charge{c}, rent1000())

		require.Len(t, d.Excluded, 1, "category %s", cat)
		assert.Equal(t, claims.ReasonPaidNotOverdue, d.Excluded[0].Reason)
		assert.Empty(t, d.Approved)
	}
}

func TestRules_StatusMatching_CaseInsensitive(t *testing.T) {
	c := unpaid("rekey", "locks", 80)
	c.Status = "Overdue"

	d := newEngine().Apply([]claims.Charge{c}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, claims.ReasonMoveOutRekey, d.Approved[0].Reason)
}

// =============================================================================
// HARD EXCLUSIONS AND WEAR
// =============================================================================

func TestRules_HardExclusions(t *testing.T) {
	e := newEngine()
	for _, cat := range []string{"non_refundable_fee", "benefit_program", "pet_damage", "lawn_vacant"} {
		d := e.Apply([]claims.Charge{unpaid(cat, "fee", 75)}, rent1000())

		require.Len(t, d.Excluded, 1, "category %s", cat)
		assert.Equal(t, claims.ReasonPolicyExclusion, d.Excluded[0].Reason)
	}
}

func TestRules_HardExclusion_ChecksOriginalCategory(t *testing.T) {
	// GIVEN: A lawn_vacant charge whose description mentions lawn
	// WHEN: Applying policy
	// THEN: Hard exclusion fires before synonym normalization could have
	//       turned it into landscaping

	c := unpaid("lawn_vacant", "lawn service while vacant", 200)
	d := newEngine().Apply([]claims.Charge{c}, rent1000())

	require.Len(t, d.Excluded, 1)
	assert.Equal(t, claims.ReasonPolicyExclusion, d.Excluded[0].Reason)
	assert.Empty(t, d.Approved)
}

func TestRules_NormalWearCleaning_Excluded(t *testing.T) {
	c := unpaid("cleaning", "carpet shampoo", 150)
	c.Wear = claims.WearNormal

	d := newEngine().Apply([]claims.Charge{c}, rent1000())

	require.Len(t, d.Excluded, 1)
	assert.Equal(t, claims.ReasonNormalWear, d.Excluded[0].Reason)
}

// =============================================================================
// CLEANING
// =============================================================================

func TestRules_Cleaning_BeyondWear_Approved(t *testing.T) {
	c := unpaid("cleaning", "deep clean", 300)
	c.Wear = claims.WearBeyond

	d := newEngine().Apply([]claims.Charge{c}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, "Cleaning – deep clean", d.Approved[0].Label)
	assert.Equal(t, claims.ReasonBeyondWear, d.Approved[0].Reason)
}

func TestRules_Cleaning_WearAbsent_DamageHintApproves(t *testing.T) {
	d := newEngine().Apply([]claims.Charge{unpaid("cleaning", "carpet stain", 300)}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, "Cleaning – carpet stain", d.Approved[0].Label)
	assert.True(t, money(300).Equal(d.Approved[0].Amount))
	assert.True(t, money(300).Equal(d.TotalApproved))
}

func TestRules_Cleaning_WearAbsent_NoHint_Excluded(t *testing.T) {
	d := newEngine().Apply([]claims.Charge{unpaid("cleaning", "light tidy", 120)}, rent1000())

	require.Len(t, d.Excluded, 1)
	assert.Equal(t, claims.ReasonUnspecifiedWear, d.Excluded[0].Reason)
}

// =============================================================================
// LANDSCAPING CAP
// =============================================================================

func TestRules_Landscaping_SingleChargeOverCap_Split(t *testing.T) {
	// GIVEN: One $800 landscaping charge against a $500 cap
	// WHEN: Applying policy
	// THEN: $500 approved, $300 excluded as remainder

	d := newEngine().Apply([]claims.Charge{unpaid("landscaping", "full regrade", 800)}, rent1000())

	require.Len(t, d.Approved, 1)
	require.Len(t, d.Excluded, 1)
	assert.True(t, money(500).Equal(d.Approved[0].Amount))
	assert.Equal(t, claims.ReasonLandscapingCap, d.Approved[0].Reason)
	assert.True(t, money(300).Equal(d.Excluded[0].Amount))
	assert.Equal(t, claims.ReasonOverLandscaping, d.Excluded[0].Reason)
}

func TestRules_Landscaping_CapSharedAcrossCharges(t *testing.T) {
	// GIVEN: $300 + $300 landscaping charges
	// WHEN: Applying policy
	// THEN: First fully approved, second split $200/$100, cap exhausted

	charges := []claims.Charge{
		unpaid("landscaping", "sod", 300),
		unpaid("landscaping", "tree removal", 300),
		unpaid("landscaping", "mulch", 50),
	}
	d := newEngine().Apply(charges, rent1000())

	require.Len(t, d.Approved, 2)
	assert.True(t, money(300).Equal(d.Approved[0].Amount))
	assert.True(t, money(200).Equal(d.Approved[1].Amount))

	require.Len(t, d.Excluded, 2)
	assert.True(t, money(100).Equal(d.Excluded[0].Amount))
	assert.Equal(t, claims.ReasonOverLandscaping, d.Excluded[0].Reason)
	assert.True(t, money(50).Equal(d.Excluded[1].Amount))
	assert.Equal(t, claims.ReasonOverLandscaping, d.Excluded[1].Reason)

	assert.True(t, money(500).Equal(d.TotalApproved))
}

func TestRules_Landscaping_ApprovedTotalNeverExceedsCap_AnyOrder(t *testing.T) {
	// Property: for landscaping charges summing to S, approved landscaping
	// total is min(S, 500) under any permutation.
	amounts := [][]float64{
		{100, 200, 350},
		{350, 200, 100},
		{200, 350, 100},
		{500, 1},
		{50, 50},
	}
	e := newEngine()
	for _, perm := range amounts {
		var charges []claims.Charge
		sum := decimal.Zero
		for _, a := range perm {
			charges = append(charges, unpaid("landscaping", "work", a))
			sum = sum.Add(money(a))
		}

		d := e.Apply(charges, rent1000())

		want := decimal.Min(sum, money(500))
		assert.True(t, want.Equal(d.TotalApproved), "permutation %v: got %s", perm, d.TotalApproved)
	}
}

// =============================================================================
// UTILITIES AND RENT
// =============================================================================

func TestRules_Utilities_CoveredInFull(t *testing.T) {
	d := newEngine().Apply([]claims.Charge{unpaid("utilities", "final water bill", 92.50)}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, "Unpaid Utilities – final water bill", d.Approved[0].Label)
	assert.Equal(t, claims.ReasonCovered, d.Approved[0].Reason)
}

func TestRules_UtilitySynonym_RecategorizedAndCovered(t *testing.T) {
	d := newEngine().Apply([]claims.Charge{unpaid("misc", "electric service true-up", 60)}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, "Unpaid Utilities – electric service true-up", d.Approved[0].Label)
}

func TestRules_UnpaidRent_CappedAtOneMonth(t *testing.T) {
	charges := []claims.Charge{
		unpaid("unpaid_rent", "March rent", 700),
		unpaid("unpaid_rent", "April rent", 700),
	}
	d := newEngine().Apply(charges, rent1000())

	require.Len(t, d.Approved, 2)
	assert.True(t, money(700).Equal(d.Approved[0].Amount))
	assert.True(t, money(300).Equal(d.Approved[1].Amount))
	assert.Equal(t, claims.ReasonRentCap, d.Approved[1].Reason)

	require.Len(t, d.Excluded, 1)
	assert.True(t, money(400).Equal(d.Excluded[0].Amount))
	assert.Equal(t, claims.ReasonOverRentCap, d.Excluded[0].Reason)

	assert.True(t, rent1000().Equal(d.TotalApproved))
}

func TestRules_UnpaidRent_CapExhausted_FullExclusion(t *testing.T) {
	charges := []claims.Charge{
		unpaid("unpaid_rent", "March rent", 1000),
		unpaid("unpaid_rent", "April rent", 250),
	}
	d := newEngine().Apply(charges, rent1000())

	require.Len(t, d.Approved, 1)
	require.Len(t, d.Excluded, 1)
	assert.True(t, money(250).Equal(d.Excluded[0].Amount))
	assert.Equal(t, claims.ReasonOverRentCap, d.Excluded[0].Reason)
}

// =============================================================================
// LEASE BREAK AND PRORATED RENT
// =============================================================================

func TestRules_LeaseBreak_Accelerated_UncappedAndDoesNotConsumeRentCap(t *testing.T) {
	// GIVEN: An accelerated lease-break fee above one month rent, followed
	//        by unpaid rent
	// WHEN: Applying policy
	// THEN: The fee is approved in full and the rent cap is untouched

	fee := unpaid("lease_break", "early termination", 2500)
	fee.AcceleratedMoveout = true
	charges := []claims.Charge{fee, unpaid("unpaid_rent", "final month", 1000)}

	d := newEngine().Apply(charges, rent1000())

	require.Len(t, d.Approved, 2)
	assert.Equal(t, "Lease Break Fee (Accelerated) – early termination", d.Approved[0].Label)
	assert.True(t, money(2500).Equal(d.Approved[0].Amount))
	assert.Equal(t, claims.ReasonAccelerated, d.Approved[0].Reason)
	assert.True(t, money(1000).Equal(d.Approved[1].Amount))
	assert.Empty(t, d.Excluded)
}

func TestRules_LeaseBreak_NotAccelerated_CappedIndependentlyOfRentUsed(t *testing.T) {
	// The lease-break cap is one month rent but does NOT share rent_used:
	// unpaid rent and a relisting fee can each draw a full month.
	charges := []claims.Charge{
		unpaid("unpaid_rent", "final month", 1000),
		unpaid("relisting_fee", "relisting", 1400),
	}
	d := newEngine().Apply(charges, rent1000())

	require.Len(t, d.Approved, 2)
	assert.True(t, money(1000).Equal(d.Approved[0].Amount))
	assert.Equal(t, "Lease Break Fee – relisting", d.Approved[1].Label)
	assert.True(t, money(1000).Equal(d.Approved[1].Amount))

	require.Len(t, d.Excluded, 1)
	assert.True(t, money(400).Equal(d.Excluded[0].Amount))
	assert.Equal(t, claims.ReasonOverRentCap, d.Excluded[0].Reason)
}

func TestRules_ProratedRent_RequiresOccupancyLink(t *testing.T) {
	linked := unpaid("prorated_rent", "final 10 days", 330)
	linked.LinkedToOccupancy = true
	unlinked := unpaid("prorated_rent", "other proration", 200)

	d := newEngine().Apply([]claims.Charge{linked, unlinked}, rent1000())

	require.Len(t, d.Approved, 1)
	assert.Equal(t, "Prorated Rent – final 10 days", d.Approved[0].Label)
	assert.Equal(t, claims.ReasonLinkedOccupancy, d.Approved[0].Reason)

	require.Len(t, d.Excluded, 1)
	assert.Equal(t, claims.ReasonNotLinked, d.Excluded[0].Reason)
}

// =============================================================================
// UNKNOWNS, TOTALS, IDEMPOTENCE
// =============================================================================

func TestRules_UnknownCategory_Excluded(t *testing.T) {
	d := newEngine().Apply([]claims.Charge{unpaid("concierge_fee", "front desk", 45)}, rent1000())

	require.Len(t, d.Excluded, 1)
	assert.Equal(t, claims.ReasonUnknownCategory, d.Excluded[0].Reason)
}

func TestRules_EmptyChargeList(t *testing.T) {
	d := newEngine().Apply(nil, rent1000())

	assert.Empty(t, d.Approved)
	assert.Empty(t, d.Excluded)
	assert.True(t, d.TotalApproved.IsZero())
}

func TestRules_TotalApproved_EqualsSumOfApprovedAmounts(t *testing.T) {
	charges := []claims.Charge{
		unpaid("cleaning", "pet urine treatment", 180.25),
		unpaid("rekey", "rekey all locks", 85.50),
		unpaid("landscaping", "yard restore", 620),
		unpaid("utilities", "water", 44.19),
		unpaid("weird_fee", "unknown", 10),
	}
	d := newEngine().Apply(charges, rent1000())

	assert.True(t, approvedTotal(d).Round(2).Equal(d.TotalApproved),
		"total %s should equal sum of approved amounts %s", d.TotalApproved, approvedTotal(d))
}

func TestRules_Apply_Idempotent(t *testing.T) {
	// Running caps must not leak between calls.
	charges := []claims.Charge{
		unpaid("landscaping", "sod", 400),
		unpaid("landscaping", "mulch", 400),
		unpaid("unpaid_rent", "rent", 1200),
	}
	e := newEngine()

	first := e.Apply(charges, rent1000())
	second := e.Apply(charges, rent1000())

	assert.Equal(t, first, second)
}
