/*
config.go - Coverage rule tables

PURPOSE:
  All policy constants the rules engine and classifier consult live here as
  a single RulesConfig value: cap amounts, hard exclusions, synonym tables,
  and the damage-hint vocabulary. Rules are tables, not scattered literals,
  so the rule order stays auditable and testable in isolation.

CUSTOMIZATION:
  DefaultRulesConfig() encodes the standard coverage terms. The factory
  package can overlay a JSON coverage document on top of the defaults for
  product variants (different cap, extra synonyms).
*/
package claims

import "github.com/shopspring/decimal"

// Canonical categories the rules engine dispatches on after normalization.
const (
	CategoryCleaning        = "cleaning"
	CategoryRekey           = "rekey"
	CategoryLandscaping     = "landscaping"
	CategoryUtilities       = "utilities"
	CategoryUnpaidUtilities = "unpaid_utilities"
	CategoryUnpaidRent      = "unpaid_rent"
	CategoryLeaseBreak      = "lease_break"
	CategoryRelistingFee    = "relisting_fee"
	CategoryLeaseBreakFee   = "lease_break_fee"
	CategoryProratedRent    = "prorated_rent"
	CategoryNormalWear      = "normal_wear"
)

// RulesConfig holds every table the classifier and rules engine consult.
// A config value is immutable once built; the engine never writes to it.
type RulesConfig struct {
	// LandscapingCap is the cumulative per-request cap on landscaping
	// charges. The unpaid-rent cap is the claim's monthly rent and is not
	// configured here.
	LandscapingCap decimal.Decimal

	// HardExclusions are categories declined outright, checked on the
	// original pre-synonym category.
	HardExclusions []string

	// Synonym tables, consulted in this order: rekey, landscaping,
	// utilities. First match wins.
	RekeySynonyms     []string
	LandscapeSynonyms []string
	UtilitySynonyms   []string

	// DamageHints infer beyond-normal wear from a charge description when
	// the charge's own wear field is unspecified.
	DamageHints []string
}

// DefaultRulesConfig returns the standard SDI coverage terms.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		LandscapingCap: decimal.NewFromInt(500),
		HardExclusions: []string{"non_refundable_fee", "benefit_program", "pet_damage", "lawn_vacant"},

		RekeySynonyms:     []string{"rekey", "locksmith", "lock change", "change locks"},
		LandscapeSynonyms: []string{"landscaping", "lawn", "yard", "grounds"},
		UtilitySynonyms:   []string{"utility", "utilities", "water", "sewer", "gas", "electric", "power"},

		DamageHints: []string{
			"stain", "hole", "burn", "tear", "ripple", "gouge", "scratch", "soiled",
			"excessive", "ruin", "broken", "damage", "beyond wear", "heavy odor", "pet urine",
		},
	}
}
