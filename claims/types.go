/*
Package claims provides the core SDI claim adjudication engine.

PURPOSE:
  This package contains the decision logic for security-deposit-insurance
  (SDI) move-out claims: the required-documents gate, ledger-evidence
  extraction, charge classification, policy rules with per-category caps,
  and payout finalization. It is purely computational - no I/O, no shared
  state between calls - so any number of adjudications may run in parallel.

KEY CONCEPTS IN THIS FILE (types.go):
  - Charge: An immutable move-out charge submitted with a claim
  - Amount: Tolerant JSON decoding for monetary amounts
  - LineItem: A charge outcome (label, amount, reason) in a decision
  - Decision: The approved/excluded breakdown produced by the rules engine

DESIGN PRINCIPLES:
  1. Immutability: Charges are never mutated, only classified into buckets
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Tolerance: Malformed business input degrades to safe defaults; only
     structural contract violations surface as errors (see errors.go)
  4. Auditability: Every approved or excluded amount carries exactly one
     human-readable reason string

SEE ALSO:
  - rules.go: Policy rules engine and caps
  - gate.go: Required-documents + ledger-evidence gate
  - adjudicate.go: End-to-end orchestration state machine
*/
package claims

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CHARGE - A single move-out charge submitted with a claim
// =============================================================================

// Charge payment statuses. Only unpaid and overdue charges are considered
// by the rules engine; everything else is excluded up front.
const (
	StatusUnpaid  = "unpaid"
	StatusOverdue = "overdue"
	StatusPaid    = "paid"
)

// Wear classifications. Empty means unspecified, in which case the damage
// hint heuristic may infer beyond-normal wear from the description.
const (
	WearBeyond = "beyond"
	WearNormal = "normal"
)

// Charge is an immutable input to the rules engine. Extractors (LLM or the
// heuristic fallback in package extract) produce this shape; the engine
// trusts it and coerces missing fields to safe defaults rather than failing.
type Charge struct {
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"` // unpaid | overdue | paid
	Wear        string          `json:"wear,omitempty"`
	Source      string          `json:"source,omitempty"` // provenance: filename or doc id

	// Exception flags read by specific rule branches.
	AcceleratedMoveout bool `json:"accelerated_moveout,omitempty"`
	LinkedToOccupancy  bool `json:"linked_to_occupancy,omitempty"`

	// Extra is a forward-compatible passthrough bag for fields this engine
	// does not interpret. Extractors may attach anything here.
	Extra map[string]json.RawMessage `json:"-"`
}

// NormalizedCategory returns the charge category lower-cased and trimmed.
// This is the form the rules engine matches against.
func (c Charge) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(c.Category))
}

// NormalizedWear returns the wear field lower-cased and trimmed.
func (c Charge) NormalizedWear() string {
	return strings.ToLower(strings.TrimSpace(c.Wear))
}

// Considered reports whether the charge's payment status makes it eligible
// for coverage. Only unpaid and overdue charges are considered.
func (c Charge) Considered() bool {
	switch strings.ToLower(strings.TrimSpace(c.Status)) {
	case StatusUnpaid, StatusOverdue:
		return true
	}
	return false
}

// =============================================================================
// AMOUNT COERCION
// =============================================================================

// ParseAmount coerces a raw JSON value into a decimal amount. Numbers and
// numeric strings (with optional $ and thousands separators) parse normally;
// null, absent, or non-numeric values coerce to zero. This is the tolerant
// path for charge amounts - it never fails.
func ParseAmount(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// DECISION - Output of the rules engine
// =============================================================================

// LineItem is one outcome bucket entry: an approved or excluded amount with
// its display label and exactly one reason.
type LineItem struct {
	Label  string          `json:"item"`
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// Decision is the full approved/excluded breakdown for one charge list.
// Ordering follows input charge order; a single charge may contribute one
// approved and one excluded line when it is partially capped.
type Decision struct {
	Approved      []LineItem      `json:"approved"`
	Excluded      []LineItem      `json:"excluded"`
	TotalApproved decimal.Decimal `json:"total_approved"` // rounded to 2 places
}

// =============================================================================
// GATE TYPES
// =============================================================================

// DocumentPresence maps document-kind identifiers to presence flags.
// Derived once per request from submitted filename stems; never mutated.
type DocumentPresence map[string]bool

// Submitted returns the sorted list of document kinds marked present.
func (p DocumentPresence) Submitted() []string {
	var docs []string
	for k, v := range p {
		if v {
			docs = append(docs, k)
		}
	}
	sort.Strings(docs)
	return docs
}

// LedgerEvidence holds what the ledger scan found about first-month payments.
// Evidence strings are whitespace-collapsed source lines, empty if not found.
type LedgerEvidence struct {
	FirstMonthRentPaid           bool   `json:"first_month_rent_paid"`
	FirstMonthRentEvidence       string `json:"first_month_rent_evidence"`
	FirstMonthSDIPremiumPaid     bool   `json:"first_month_sdi_premium_paid"`
	FirstMonthSDIPremiumEvidence string `json:"first_month_sdi_premium_paid_evidence"`
}

// GateResult is the terminal value of the validation gate stage.
type GateResult struct {
	Approved         bool     `json:"approved"`
	MissingDocuments []string `json:"missing_documents"` // sorted lexicographically
	Status           string   `json:"status"`            // "Approved" | "Declined"
	RentEvidence     string   `json:"rent_evidence"`
	SDIEvidence      string   `json:"sdi_evidence"`
	RentPaid         bool     `json:"rent_paid"`
	SDIPaid          bool     `json:"sdi_paid"`
}

// =============================================================================
// READINESS
// =============================================================================

// ReadinessResult states whether enough claim metadata exists to issue a
// binding final payout rather than an estimate.
type ReadinessResult struct {
	Ready                 bool     `json:"ready"`
	Missing               []string `json:"missing"`
	EffectiveJurisdiction string   `json:"effective_jurisdiction"`
}
