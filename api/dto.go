/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

TOLERANT DECODING:
  Charge objects follow the tolerant-schema contract: known fields decode
  with coercion (non-numeric amounts become 0, null wear becomes empty),
  and unknown fields are preserved in an explicit passthrough bag instead
  of being silently dropped. Top-level claim scalars (monthly_rent,
  max_benefit) decode STRICTLY - a malformed value there is an InvalidInput
  error, not a coercion.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - claims/types.go: The engine-side shapes these map to
*/
package api

import (
	"encoding/json"

	"github.com/harbor/claims-engine/claims"
	"github.com/harbor/claims-engine/extract"
	"github.com/shopspring/decimal"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// ADJUDICATE REQUEST
// =============================================================================

// AdjudicateRequest is the request body for POST /api/adjudicate.
type AdjudicateRequest struct {
	TenantName      string `json:"tenant_name"`
	PropertyAddress string `json:"property_address"`

	MonthlyRent decimal.Decimal `json:"monthly_rent"`
	MaxBenefit  decimal.Decimal `json:"max_benefit"`

	DepositAmount *decimal.Decimal `json:"deposit_amount"`
	MoveOutDate   string           `json:"move_out_date"`
	Jurisdiction  string           `json:"jurisdiction"`
	LeaseState    string           `json:"lease_state"`

	DocumentsPresent map[string]bool       `json:"documents_present"`
	LedgerChecks     claims.LedgerEvidence `json:"ledger_checks"`
	Charges          []ChargeDTO           `json:"charges"`
}

// ChargeDTO is a tolerant charge decoder. Known fields coerce to safe
// defaults; unknown fields land in Extra for passthrough.
type ChargeDTO struct {
	Category           string
	Description        string
	Amount             decimal.Decimal
	Status             string
	Wear               string
	Source             string
	AcceleratedMoveout bool
	LinkedToOccupancy  bool
	Extra              map[string]json.RawMessage
}

// chargeKnownFields are the keys the decoder interprets; everything else
// is passthrough.
var chargeKnownFields = map[string]struct{}{
	"category": {}, "description": {}, "amount": {}, "status": {},
	"wear": {}, "source": {}, "accelerated_moveout": {}, "linked_to_occupancy": {},
}

// UnmarshalJSON decodes a charge tolerantly. Only a structurally broken
// object (not a JSON object at all) fails.
func (c *ChargeDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Category = coerceString(raw["category"])
	c.Description = coerceString(raw["description"])
	c.Amount = claims.ParseAmount(raw["amount"])
	c.Status = coerceString(raw["status"])
	c.Wear = coerceString(raw["wear"])
	c.Source = coerceString(raw["source"])
	c.AcceleratedMoveout = coerceBool(raw["accelerated_moveout"])
	c.LinkedToOccupancy = coerceBool(raw["linked_to_occupancy"])

	for k, v := range raw {
		if _, known := chargeKnownFields[k]; known {
			continue
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage)
		}
		c.Extra[k] = v
	}
	return nil
}

// toCharge converts the DTO to the engine's charge shape.
func (c ChargeDTO) toCharge() claims.Charge {
	return claims.Charge{
		Category:           c.Category,
		Description:        c.Description,
		Amount:             c.Amount,
		Status:             c.Status,
		Wear:               c.Wear,
		Source:             c.Source,
		AcceleratedMoveout: c.AcceleratedMoveout,
		LinkedToOccupancy:  c.LinkedToOccupancy,
		Extra:              c.Extra,
	}
}

func coerceString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func coerceBool(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// =============================================================================
// ADJUDICATE RESPONSE
// =============================================================================

// AdjudicateResponse mirrors the orchestrator's terminal state.
type AdjudicateResponse struct {
	ID                   string            `json:"id"`
	Validation           ValidationDTO     `json:"validation"`
	FinalPayoutAvailable bool              `json:"final_payout_available"`
	MissingFields        []string          `json:"missing_fields"`
	OutputTemplate       OutputTemplateDTO `json:"output_template"`
	JurisdictionUsed     string            `json:"jurisdiction_used,omitempty"`
	SummaryOfDecision    string            `json:"summary_of_decision"`
}

// ValidationDTO is the gate verdict detail block.
type ValidationDTO struct {
	FirstMonthPaid                   bool     `json:"first_month_paid"`
	FirstMonthPaidEvidence           string   `json:"first_month_paid_evidence"`
	FirstMonthSDIPremiumPaid         bool     `json:"first_month_sdi_premium_paid"`
	FirstMonthSDIPremiumPaidEvidence string   `json:"first_month_sdi_premium_paid_evidence"`
	MissingDocuments                 []string `json:"missing_documents"`
	Status                           string   `json:"status"`
}

// ChargeLineDTO is one approved or excluded line item.
type ChargeLineDTO struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// OutputTemplateDTO is the reviewer-facing assessment summary.
type OutputTemplateDTO struct {
	TenantName                 string          `json:"tenant_name"`
	AssessmentStatus           string          `json:"assessment_status"`
	PropertyAddress            string          `json:"property_address"`
	MonthlyRent                float64         `json:"monthly_rent"`
	SubmittedDocuments         []string        `json:"submitted_documents"`
	ApprovedCharges            []ChargeLineDTO `json:"approved_charges"`
	ExcludedCharges            []ChargeLineDTO `json:"excluded_charges"`
	TotalApprovedCharges       float64         `json:"total_approved_charges"`
	FinalPayoutBasedOnCoverage float64         `json:"final_payout_based_on_coverage"`
}

func toValidationDTO(g claims.GateResult) ValidationDTO {
	return ValidationDTO{
		FirstMonthPaid:                   g.RentPaid,
		FirstMonthPaidEvidence:           g.RentEvidence,
		FirstMonthSDIPremiumPaid:         g.SDIPaid,
		FirstMonthSDIPremiumPaidEvidence: g.SDIEvidence,
		MissingDocuments:                 g.MissingDocuments,
		Status:                           g.Status,
	}
}

func toChargeLineDTOs(items []claims.LineItem) []ChargeLineDTO {
	dtos := make([]ChargeLineDTO, len(items))
	for i, it := range items {
		dtos[i] = ChargeLineDTO{
			Item:   it.Label,
			Amount: it.Amount.InexactFloat64(),
			Reason: it.Reason,
		}
	}
	return dtos
}

// =============================================================================
// LEDGER REVIEW
// =============================================================================

// DocumentDTO is one already-extracted text document.
type DocumentDTO struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// LedgerReviewRequest is the request body for POST /api/ledger/review.
type LedgerReviewRequest struct {
	Files          []DocumentDTO `json:"files"`
	LeaseStartDate string        `json:"lease_start_date,omitempty"`
}

// LedgerReviewResponse carries the gate verdict plus the formatted report.
type LedgerReviewResponse struct {
	Approved  bool          `json:"approved"`
	Details   ValidationDTO `json:"details"`
	Formatted string        `json:"formatted"`
}

// =============================================================================
// EXTRACT CHARGES
// =============================================================================

// ExtractRequest is the request body for POST /api/extract-charges.
type ExtractRequest struct {
	Files []DocumentDTO `json:"files"`
}

// ExtractedChargeDTO is a parsed fallback charge in response form.
type ExtractedChargeDTO struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Wear        string  `json:"wear,omitempty"`
	Source      string  `json:"source,omitempty"`
}

// ExtractMetadataDTO is claim-level data recovered during parsing.
type ExtractMetadataDTO struct {
	DepositAmount             *float64 `json:"deposit_amount"`
	DepositEqualsOneMonthRent bool     `json:"deposit_equals_one_month_rent,omitempty"`
}

// ExtractResponse is the response for POST /api/extract-charges.
type ExtractResponse struct {
	Docs     []string             `json:"docs"`
	Charges  []ExtractedChargeDTO `json:"charges"`
	Metadata ExtractMetadataDTO   `json:"metadata"`
}

func toExtractResponse(docs []DocumentDTO, res extract.Result) ExtractResponse {
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.Filename
	}

	charges := make([]ExtractedChargeDTO, len(res.Charges))
	for i, c := range res.Charges {
		charges[i] = ExtractedChargeDTO{
			Category:    c.Category,
			Description: c.Description,
			Amount:      c.Amount.InexactFloat64(),
			Status:      c.Status,
			Wear:        c.Wear,
			Source:      c.Source,
		}
	}

	meta := ExtractMetadataDTO{DepositEqualsOneMonthRent: res.Metadata.DepositEqualsOneMonthRent}
	if res.Metadata.DepositAmount != nil {
		v := res.Metadata.DepositAmount.InexactFloat64()
		meta.DepositAmount = &v
	}

	return ExtractResponse{Docs: names, Charges: charges, Metadata: meta}
}

// =============================================================================
// CLAIM RECORDS
// =============================================================================

// ClaimRecordDTO is a stored adjudication in list/detail responses.
type ClaimRecordDTO struct {
	ID               string          `json:"id"`
	TenantName       string          `json:"tenant_name"`
	PropertyAddress  string          `json:"property_address"`
	Outcome          string          `json:"outcome"`
	GateStatus       string          `json:"gate_status"`
	TotalApproved    float64         `json:"total_approved"`
	FinalPayout      float64         `json:"final_payout"`
	PayoutAvailable  bool            `json:"payout_available"`
	JurisdictionUsed string          `json:"jurisdiction_used,omitempty"`
	CreatedAt        string          `json:"created_at"`
	Response         json.RawMessage `json:"response,omitempty"`
}
