// internal/models/evidence.go
package models

import "github.com/google/uuid"

// UnknownField is the sentinel used when a registry record is missing a field.
// Records are always fully populated; no field is ever empty or absent.
const UnknownField = "Unknown"

// AbstractRecord is one normalized PubMed abstract.
type AbstractRecord struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// VariantRecord is one normalized ClinVar entry. Only records whose
// Classification passed the pathogenicity filter appear downstream.
type VariantRecord struct {
	HGVSName       string `json:"hgvsName"`
	VariantType    string `json:"variantType"`
	Classification string `json:"classification"`
	Condition      string `json:"condition"`
}

// EvidenceBundle merges the two retrieval outputs for one gene query.
// It is owned by the orchestrator for the duration of a single run.
type EvidenceBundle struct {
	Gene      string           `json:"gene"`
	Abstracts []AbstractRecord `json:"abstracts"`
	Variants  []VariantRecord  `json:"variants"`
}

// PipelineResult is the final output of one run; ownership transfers
// to the caller.
type PipelineResult struct {
	RunID     uuid.UUID       `json:"runId"`
	Gene      string          `json:"gene"`
	Variants  []VariantRecord `json:"variants"`
	Narrative string          `json:"narrative"`
	Warnings  []string        `json:"warnings"`
}
