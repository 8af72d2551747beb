package claims_test

import (
	"testing"

	"github.com/harbor/claims-engine/claims"
	"github.com/stretchr/testify/assert"
)

func TestDetectDocuments_ExactMatchOnly(t *testing.T) {
	// GIVEN: Submitted stems including an exact match and a near-miss
	// WHEN: Detecting presence
	// THEN: Only the exact identifier counts; no substring matching

	present := claims.DetectDocuments([]string{"lease_agreement", "lease_addendum_v2"})

	assert.True(t, present["lease_agreement"])
	assert.False(t, present["lease_addendum"], "lease_addendum_v2 must not satisfy lease_addendum")
}

func TestDetectDocuments_CaseAndWhitespaceInsensitive(t *testing.T) {
	present := claims.DetectDocuments([]string{"  Tenant_Ledger ", "INVOICE"})

	assert.True(t, present["tenant_ledger"])
	assert.True(t, present["invoice"])
}

func TestDetectDocuments_EmptyInput_AllFalse(t *testing.T) {
	present := claims.DetectDocuments(nil)

	for _, k := range claims.RequiredDocuments {
		assert.False(t, present[k], "required doc %s should be absent", k)
	}
	for _, k := range claims.OptionalDocuments {
		assert.False(t, present[k], "optional doc %s should be absent", k)
	}
}

func TestDocumentPresence_Submitted_SortedPresentOnly(t *testing.T) {
	present := claims.DetectDocuments([]string{"tenant_ledger", "invoice", "lease_agreement"})

	assert.Equal(t, []string{"invoice", "lease_agreement", "tenant_ledger"}, present.Submitted())
}
