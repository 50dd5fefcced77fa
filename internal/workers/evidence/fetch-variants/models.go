// internal/workers/evidence/fetch-variants/models.go
package fetchvariants

import "varsight/internal/models"

type Input struct {
	Gene string `json:"gene"`
}

type Output struct {
	// Variants holds only records that passed the pathogenicity filter,
	// in registry return order.
	Variants []models.VariantRecord `json:"variants"`
	// Warnings carries per-record extraction diagnostics for skipped UIDs.
	Warnings []string `json:"warnings,omitempty"`
}

// esearchResponse is the JSON envelope of an E-utilities ID search.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// esummaryResponse is the JSON envelope of an E-utilities batch summary.
// The result object is keyed by UID, with a "uids" list preserving the
// registry return order.
type esummaryResponse struct {
	Result map[string]interface{} `json:"result"`
}
