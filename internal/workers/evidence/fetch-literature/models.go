// internal/workers/evidence/fetch-literature/models.go
package fetchliterature

import "varsight/internal/models"

type Input struct {
	Gene string `json:"gene"`
}

type Output struct {
	Abstracts []models.AbstractRecord `json:"abstracts"`
}

// esearchResponse is the JSON envelope of an E-utilities ID search.
type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}
