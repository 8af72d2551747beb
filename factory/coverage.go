/*
Package factory provides JSON to coverage-config conversion.

PURPOSE:
  Converts JSON coverage documents into claims.RulesConfig values. This
  enables product variants without code changes - underwriting can adjust
  the landscaping cap or extend a synonym table in JSON, and the factory
  overlays it on the standard terms.

JSON SCHEMA:
  {
    "landscaping_cap": 500,
    "hard_exclusions": ["non_refundable_fee", "pet_damage"],
    "synonyms": {
      "rekey": ["rekey", "locksmith"],
      "landscaping": ["landscaping", "lawn"],
      "utilities": ["utility", "water"]
    },
    "damage_hints": ["stain", "hole"]
  }

  Every field is optional; omitted fields keep the defaults from
  claims.DefaultRulesConfig(). Supplied lists REPLACE the default lists,
  they do not merge, so a variant document is always self-describing.

USAGE:
  cfg, err := factory.ParseCoverage(jsonStr)
  engine := claims.NewRulesEngine(cfg)

SEE ALSO:
  - claims/config.go: RulesConfig and the standard terms
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/harbor/claims-engine/claims"
	"github.com/shopspring/decimal"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// CoverageJSON is the JSON representation of coverage terms.
type CoverageJSON struct {
	LandscapingCap *float64      `json:"landscaping_cap,omitempty"`
	HardExclusions []string      `json:"hard_exclusions,omitempty"`
	Synonyms       *SynonymsJSON `json:"synonyms,omitempty"`
	DamageHints    []string      `json:"damage_hints,omitempty"`
}

// SynonymsJSON holds the per-canonical-category synonym tables.
type SynonymsJSON struct {
	Rekey       []string `json:"rekey,omitempty"`
	Landscaping []string `json:"landscaping,omitempty"`
	Utilities   []string `json:"utilities,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseCoverage overlays a JSON coverage document on the standard terms.
func ParseCoverage(jsonStr string) (claims.RulesConfig, error) {
	cfg := claims.DefaultRulesConfig()

	var doc CoverageJSON
	if err := json.Unmarshal([]byte(jsonStr), &doc); err != nil {
		return cfg, fmt.Errorf("invalid coverage JSON: %w", err)
	}

	if doc.LandscapingCap != nil {
		if *doc.LandscapingCap < 0 {
			return cfg, fmt.Errorf("invalid coverage JSON: landscaping_cap must be non-negative, got %v", *doc.LandscapingCap)
		}
		cfg.LandscapingCap = decimal.NewFromFloat(*doc.LandscapingCap)
	}
	if doc.HardExclusions != nil {
		cfg.HardExclusions = doc.HardExclusions
	}
	if doc.Synonyms != nil {
		if doc.Synonyms.Rekey != nil {
			cfg.RekeySynonyms = doc.Synonyms.Rekey
		}
		if doc.Synonyms.Landscaping != nil {
			cfg.LandscapeSynonyms = doc.Synonyms.Landscaping
		}
		if doc.Synonyms.Utilities != nil {
			cfg.UtilitySynonyms = doc.Synonyms.Utilities
		}
	}
	if doc.DamageHints != nil {
		cfg.DamageHints = doc.DamageHints
	}

	return cfg, nil
}

// StandardCoverageJSON returns the standard terms as a JSON document,
// convenient as a starting point for variants.
func StandardCoverageJSON() string {
	std := claims.DefaultRulesConfig()
	cap, _ := std.LandscapingCap.Float64()
	doc := CoverageJSON{
		LandscapingCap: &cap,
		HardExclusions: std.HardExclusions,
		Synonyms: &SynonymsJSON{
			Rekey:       std.RekeySynonyms,
			Landscaping: std.LandscapeSynonyms,
			Utilities:   std.UtilitySynonyms,
		},
		DamageHints: std.DamageHints,
	}
	b, _ := json.MarshalIndent(doc, "", "  ")
	return string(b)
}
