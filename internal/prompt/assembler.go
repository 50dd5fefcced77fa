// internal/prompt/assembler.go

// Package prompt renders retrieved evidence into the document sent to the
// summarization backend. Everything here is pure: no I/O, deterministic
// output for identical input.
package prompt

import (
	"fmt"
	"strings"

	"varsight/internal/models"
)

// NoAbstractsMarker substitutes for the abstract section when the literature
// search returned nothing.
const NoAbstractsMarker = "no abstracts found"

// SystemInstruction is the fixed role given to the summarization backend.
const SystemInstruction = "You are a biomedical summarization assistant. You synthesize gene mutation evidence from literature abstracts and clinical variant records into a concise narrative for a clinical audience."

var tableHeader = []string{"HGVS", "Type", "Significance", "Condition"}

// RenderVariantTable renders the filtered variants as a markdown table. The
// header row is always present; an empty input yields a header-only table.
// This single renderer serves both the prompt document and the display layer.
func RenderVariantTable(variants []models.VariantRecord) string {
	var b strings.Builder

	b.WriteString("| " + strings.Join(tableHeader, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(tableHeader)) + "\n")

	for _, v := range variants {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			v.HGVSName, v.VariantType, v.Classification, v.Condition)
	}

	return b.String()
}

// RenderAbstracts renders abstracts as title/body blocks separated by blank
// lines, or the no-abstracts marker when the sequence is empty.
func RenderAbstracts(abstracts []models.AbstractRecord) string {
	if len(abstracts) == 0 {
		return NoAbstractsMarker
	}

	blocks := make([]string, 0, len(abstracts))
	for _, a := range abstracts {
		blocks = append(blocks, fmt.Sprintf("**%s**\n\n%s", a.Title, a.Body))
	}

	return strings.Join(blocks, "\n\n")
}

// Assemble wraps the two renderings in the fixed instructional template for
// one gene. Calling it twice with identical input produces byte-identical
// documents.
func Assemble(gene string, abstracts []models.AbstractRecord, variants []models.VariantRecord) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summarize the mutation evidence for gene %s.\n\n", gene)

	b.WriteString("## ClinVar variants (pathogenic / likely pathogenic)\n\n")
	b.WriteString(RenderVariantTable(variants))
	b.WriteString("\n")

	b.WriteString("## PubMed abstracts\n\n")
	b.WriteString(RenderAbstracts(abstracts))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Synthesize the mutation patterns and clinical significance of %s from the evidence above. Note recurring variant types, associated conditions, and any disagreement between the literature and the variant records.", gene)

	return b.String()
}
