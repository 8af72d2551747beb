/*
documents.go - Required-document presence detection

PURPOSE:
  Maps submitted document identifiers (filename stems, lower-cased and
  extension-stripped by the caller) to presence flags for the document
  kinds the policy cares about.

MATCHING RULE:
  A document kind is present iff its exact identifier appears as a complete
  element of the submitted set after lower-casing and trimming. Exact match,
  not substring containment: "lease_addendum_v2" does NOT satisfy
  "lease_addendum". No fuzzy matching, no error conditions; absent input
  yields all-false.
*/
package claims

import "strings"

// RequiredDocuments are the document kinds the gate demands. All four must
// be present for a claim to pass validation.
var RequiredDocuments = []string{
	"lease_addendum",
	"lease_agreement",
	"notification_to_tenant",
	"tenant_ledger",
}

// OptionalDocuments are tracked for transparency but never gate approval.
var OptionalDocuments = []string{
	"invoice",
	"claim_evaluation_report",
}

// DetectDocuments derives a presence set from submitted document stems.
func DetectDocuments(stems []string) DocumentPresence {
	names := make(map[string]struct{}, len(stems))
	for _, s := range stems {
		names[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	present := make(DocumentPresence, len(RequiredDocuments)+len(OptionalDocuments))
	for _, k := range RequiredDocuments {
		_, ok := names[k]
		present[k] = ok
	}
	for _, k := range OptionalDocuments {
		_, ok := names[k]
		present[k] = ok
	}
	return present
}
