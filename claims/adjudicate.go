/*
adjudicate.go - End-to-end adjudication orchestration

PURPOSE:
  Sequences the gate, rules engine, readiness check, and payout finalizer
  into the claim decision state machine.

STATE MACHINE:
  GateFailed    (terminal) Gate declined. No charges are evaluated; the
                           response carries zeroed amounts and the gate's
                           reason list.
  EstimateOnly  (terminal) Gate passed but readiness failed. Charges are
                           evaluated and the approved total reported, but
                           no binding payout: the final payout reads 0 and
                           the missing fields are listed.
  FinalPayout   (terminal) Gate passed and readiness held. The approved
                           total is clipped to the max benefit and reported
                           as binding, with the jurisdiction actually used.

  Each request is processed synchronously start to finish with no shared
  mutable state; concurrent adjudications need no coordination.
*/
package claims

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Outcome identifies the terminal state an adjudication reached.
type Outcome string

const (
	OutcomeGateFailed   Outcome = "gate_failed"
	OutcomeEstimateOnly Outcome = "estimate_only"
	OutcomeFinalPayout  Outcome = "final_payout"
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// AdjudicationRequest is the full input for one claim decision. All fields
// are plain data; the boundary layer is responsible for producing the
// document presence set and ledger evidence before calling Adjudicate.
type AdjudicationRequest struct {
	TenantName      string
	PropertyAddress string

	MonthlyRent decimal.Decimal
	MaxBenefit  decimal.Decimal

	// Readiness fields. Optional; when missing, only an estimate is issued.
	DepositAmount *decimal.Decimal
	MoveOutDate   string
	Jurisdiction  string
	LeaseState    string

	Documents DocumentPresence
	Ledger    LedgerEvidence
	Charges   []Charge
}

// Validate checks the structural contract. Business-level gaps (missing
// documents, unready fields) are outcomes, not errors; only input the
// engine cannot meaningfully adjudicate is rejected here.
func (r *AdjudicationRequest) Validate() error {
	if r.MonthlyRent.IsNegative() {
		return &InvalidInputError{Field: "monthly_rent", Detail: "must be non-negative"}
	}
	if r.MaxBenefit.IsNegative() {
		return &InvalidInputError{Field: "max_benefit", Detail: "must be non-negative"}
	}
	return nil
}

// AdjudicationResult is the orchestrated decision: which terminal state was
// reached and every piece of supporting detail a caller needs to render it.
type AdjudicationResult struct {
	Outcome Outcome

	Gate      GateResult
	Decision  Decision
	Readiness ReadinessResult

	FinalPayout          decimal.Decimal
	FinalPayoutAvailable bool
	MissingFields        []string
	SubmittedDocuments   []string
	JurisdictionUsed     string
	Summary              string
}

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator runs the adjudication state machine. Stateless; one instance
// serves concurrent requests.
type Orchestrator struct {
	Rules *RulesEngine
}

// NewOrchestrator builds an orchestrator over the standard coverage terms.
func NewOrchestrator() *Orchestrator {
	return NewOrchestratorWithConfig(DefaultRulesConfig())
}

// NewOrchestratorWithConfig builds an orchestrator over explicit coverage
// terms, typically produced by the factory package from a variant document.
func NewOrchestratorWithConfig(cfg RulesConfig) *Orchestrator {
	return &Orchestrator{Rules: NewRulesEngine(cfg)}
}

// Adjudicate runs one claim through the state machine. The only error class
// is InvalidInput; Declined and EstimateOnly are ordinary results.
func (o *Orchestrator) Adjudicate(req AdjudicationRequest) (*AdjudicationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gate := ValidateGate(req.Documents, req.Ledger)
	result := &AdjudicationResult{
		Gate:               gate,
		Decision:           Decision{Approved: []LineItem{}, Excluded: []LineItem{}},
		MissingFields:      []string{},
		SubmittedDocuments: req.Documents.Submitted(),
	}

	if !gate.Approved {
		result.Outcome = OutcomeGateFailed
		result.Summary = "Required gate(s) failed. Declined per policy."
		return result, nil
	}

	result.Decision = o.Rules.Apply(req.Charges, req.MonthlyRent)
	result.Readiness = CheckReadiness(ReadinessInput{
		DepositAmount: req.DepositAmount,
		MoveOutDate:   req.MoveOutDate,
		Jurisdiction:  req.Jurisdiction,
		LeaseState:    req.LeaseState,
	})

	if !result.Readiness.Ready {
		result.Outcome = OutcomeEstimateOnly
		result.MissingFields = result.Readiness.Missing
		result.Summary = fmt.Sprintf(
			"Final payout not available: missing required fields — %s. Only estimated payout may be shown.",
			strings.Join(result.Readiness.Missing, ", "))
		return result, nil
	}

	result.Outcome = OutcomeFinalPayout
	result.FinalPayout = FinalizePayout(result.Decision.TotalApproved, &req.MaxBenefit)
	result.FinalPayoutAvailable = true
	result.JurisdictionUsed = result.Readiness.EffectiveJurisdiction
	result.Summary = "Policy rules applied with caps; payout limited by Max Benefit."
	return result, nil
}
