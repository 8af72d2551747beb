package claims_test

import (
	"errors"
	"testing"

	"github.com/harbor/claims-engine/claims"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readyRequest() claims.AdjudicationRequest {
	dep := money(1500)
	return claims.AdjudicationRequest{
		TenantName:      "Jordan Smith",
		PropertyAddress: "12 Main St",
		MonthlyRent:     money(1000),
		MaxBenefit:      money(2000),
		DepositAmount:   &dep,
		MoveOutDate:     "2026-03-31",
		Jurisdiction:    "SC",
		Documents:       allDocsPresent(),
		Ledger:          paidLedger(),
		Charges: []claims.Charge{
			unpaid("cleaning", "carpet stain", 300),
		},
	}
}

func TestAdjudicate_GateFailed_Terminal(t *testing.T) {
	// GIVEN: A claim missing a required document
	// WHEN: Adjudicating
	// THEN: Terminal GateFailed with zeroed amounts; charges never evaluated

	req := readyRequest()
	req.Documents["tenant_ledger"] = false

	res, err := claims.NewOrchestrator().Adjudicate(req)
	require.NoError(t, err)

	assert.Equal(t, claims.OutcomeGateFailed, res.Outcome)
	assert.False(t, res.Gate.Approved)
	assert.Equal(t, []string{"tenant_ledger"}, res.Gate.MissingDocuments)
	assert.Empty(t, res.Decision.Approved)
	assert.Empty(t, res.Decision.Excluded)
	assert.True(t, res.Decision.TotalApproved.IsZero())
	assert.False(t, res.FinalPayoutAvailable)
	assert.True(t, res.FinalPayout.IsZero())
	assert.Equal(t, "Required gate(s) failed. Declined per policy.", res.Summary)
}

func TestAdjudicate_EstimateOnly_WhenNotReady(t *testing.T) {
	// GIVEN: A passing gate but no move-out date
	// WHEN: Adjudicating
	// THEN: Decision is reported but payout stays zero and unavailable

	req := readyRequest()
	req.MoveOutDate = ""

	res, err := claims.NewOrchestrator().Adjudicate(req)
	require.NoError(t, err)

	assert.Equal(t, claims.OutcomeEstimateOnly, res.Outcome)
	assert.True(t, res.Gate.Approved)
	require.Len(t, res.Decision.Approved, 1)
	assert.True(t, money(300).Equal(res.Decision.TotalApproved))
	assert.False(t, res.FinalPayoutAvailable)
	assert.True(t, res.FinalPayout.IsZero())
	assert.Equal(t, []string{"move_out_date"}, res.MissingFields)
	assert.Contains(t, res.Summary, "Only estimated payout may be shown.")
}

func TestAdjudicate_FinalPayout_EndToEnd(t *testing.T) {
	// One unpaid cleaning charge "carpet stain" for 300 against monthly
	// rent 1000 approves in full.

	res, err := claims.NewOrchestrator().Adjudicate(readyRequest())
	require.NoError(t, err)

	assert.Equal(t, claims.OutcomeFinalPayout, res.Outcome)
	require.Len(t, res.Decision.Approved, 1)
	assert.Equal(t, "Cleaning – carpet stain", res.Decision.Approved[0].Label)
	assert.Equal(t, claims.ReasonBeyondWear, res.Decision.Approved[0].Reason)
	assert.True(t, money(300).Equal(res.Decision.TotalApproved))

	assert.True(t, res.FinalPayoutAvailable)
	assert.True(t, money(300).Equal(res.FinalPayout))
	assert.Equal(t, "SC", res.JurisdictionUsed)
	assert.Equal(t, "Policy rules applied with caps; payout limited by Max Benefit.", res.Summary)
}

func TestAdjudicate_FinalPayout_ClippedToMaxBenefit(t *testing.T) {
	req := readyRequest()
	req.MaxBenefit = money(200)

	res, err := claims.NewOrchestrator().Adjudicate(req)
	require.NoError(t, err)

	assert.True(t, money(300).Equal(res.Decision.TotalApproved))
	assert.True(t, money(200).Equal(res.FinalPayout))
}

func TestAdjudicate_SubmittedDocumentsReported(t *testing.T) {
	res, err := claims.NewOrchestrator().Adjudicate(readyRequest())
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"lease_addendum", "lease_agreement", "notification_to_tenant", "tenant_ledger"},
		res.SubmittedDocuments)
}

func TestAdjudicate_NegativeMonthlyRent_InvalidInput(t *testing.T) {
	req := readyRequest()
	req.MonthlyRent = money(-5)

	_, err := claims.NewOrchestrator().Adjudicate(req)

	require.Error(t, err)
	assert.True(t, errors.Is(err, claims.ErrInvalidInput))
	var detail *claims.InvalidInputError
	require.ErrorAs(t, err, &detail)
	assert.Equal(t, "monthly_rent", detail.Field)
}
