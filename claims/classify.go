/*
classify.go - Charge category normalization

PURPOSE:
  Normalizes a raw charge's category using synonym tables and infers
  beyond-normal wear from description text. Classification is a pure
  function of (category, description) - no external state - so outcomes
  are reproducible and the synonym order is auditable.

ORDER MATTERS:
  Synonym tables are consulted rekey -> landscaping -> utilities, first
  match wins. A "lawn lock change" charge is therefore rekey, not
  landscaping. Unmatched categories pass through lower-cased and trimmed.
*/
package claims

import "strings"

// Classifier normalizes charge categories against the configured tables.
type Classifier struct {
	cfg RulesConfig
}

// NewClassifier returns a classifier over the given rule tables.
func NewClassifier(cfg RulesConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

// Normalize returns the canonical category for a raw (category, description)
// pair. Synonym matching scans the concatenation of both fields, matching
// the extractors' habit of putting the category hint in either.
func (cl *Classifier) Normalize(category, description string) string {
	cat := strings.ToLower(strings.TrimSpace(category))
	joined := strings.ToLower(category + " " + description)

	switch {
	case containsAny(joined, cl.cfg.RekeySynonyms):
		return CategoryRekey
	case containsAny(joined, cl.cfg.LandscapeSynonyms):
		return CategoryLandscaping
	case containsAny(joined, cl.cfg.UtilitySynonyms):
		return CategoryUnpaidUtilities
	}
	return cat
}

// LooksBeyondWear reports whether a description contains damage vocabulary.
// Used only when the charge's own wear field is unspecified.
func (cl *Classifier) LooksBeyondWear(description string) bool {
	return containsAny(strings.ToLower(description), cl.cfg.DamageHints)
}
