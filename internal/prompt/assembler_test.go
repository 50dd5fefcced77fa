// internal/prompt/assembler_test.go
package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"varsight/internal/models"
)

var testVariants = []models.VariantRecord{
	{
		HGVSName:       "NM_007294.4(BRCA1):c.68_69del",
		VariantType:    "Deletion",
		Classification: "Pathogenic",
		Condition:      "Breast-ovarian cancer, familial 1",
	},
	{
		HGVSName:       "NM_007294.4(BRCA1):c.5266dup",
		VariantType:    "Duplication",
		Classification: "Likely pathogenic",
		Condition:      "Unknown",
	},
}

var testAbstracts = []models.AbstractRecord{
	{Title: "BRCA1 founder mutations", Body: "Frameshift variants dominate in founder populations."},
	{Title: "No Title", Body: "No abstract available"},
}

func TestRenderVariantTable(t *testing.T) {
	table := RenderVariantTable(testVariants)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "| HGVS | Type | Significance | Condition |", lines[0])
	assert.Equal(t, "| --- | --- | --- | --- |", lines[1])
	assert.Equal(t, "| NM_007294.4(BRCA1):c.68_69del | Deletion | Pathogenic | Breast-ovarian cancer, familial 1 |", lines[2])
	assert.Equal(t, "| NM_007294.4(BRCA1):c.5266dup | Duplication | Likely pathogenic | Unknown |", lines[3])
}

func TestRenderVariantTable_Empty_HeaderOnly(t *testing.T) {
	table := RenderVariantTable(nil)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")

	require.Len(t, lines, 2)
	assert.Equal(t, "| HGVS | Type | Significance | Condition |", lines[0])
	assert.Equal(t, "| --- | --- | --- | --- |", lines[1])
}

func TestRenderAbstracts(t *testing.T) {
	rendered := RenderAbstracts(testAbstracts)

	assert.Equal(t,
		"**BRCA1 founder mutations**\n\nFrameshift variants dominate in founder populations."+
			"\n\n"+
			"**No Title**\n\nNo abstract available",
		rendered)
}

func TestRenderAbstracts_Empty_Marker(t *testing.T) {
	assert.Equal(t, NoAbstractsMarker, RenderAbstracts(nil))
	assert.Equal(t, NoAbstractsMarker, RenderAbstracts([]models.AbstractRecord{}))
}

func TestAssemble(t *testing.T) {
	doc := Assemble("BRCA1", testAbstracts, testVariants)

	assert.True(t, strings.HasPrefix(doc, "Summarize the mutation evidence for gene BRCA1.\n\n"))
	assert.Contains(t, doc, "## ClinVar variants (pathogenic / likely pathogenic)")
	assert.Contains(t, doc, "## PubMed abstracts")
	assert.Contains(t, doc, "| NM_007294.4(BRCA1):c.68_69del | Deletion | Pathogenic | Breast-ovarian cancer, familial 1 |")
	assert.Contains(t, doc, "**BRCA1 founder mutations**")
	assert.Contains(t, doc, "clinical significance of BRCA1")
}

func TestAssemble_Deterministic(t *testing.T) {
	first := Assemble("TP53", testAbstracts, testVariants)
	second := Assemble("TP53", testAbstracts, testVariants)

	assert.Equal(t, first, second)
}

func TestAssemble_NoEvidence(t *testing.T) {
	doc := Assemble("OBSCURE1", nil, nil)

	assert.Contains(t, doc, NoAbstractsMarker)
	assert.Contains(t, doc, "| HGVS | Type | Significance | Condition |")
	assert.Contains(t, doc, "OBSCURE1")
}
