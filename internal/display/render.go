// internal/display/render.go

// Package display renders a completed pipeline result for the console.
package display

import (
	"fmt"
	"io"

	"varsight/internal/models"
	"varsight/internal/prompt"
)

// Render writes the gene header, variant table, narrative, and any warnings.
// The table comes from the same renderer the prompt document uses, so what
// the user sees is what the backend saw.
func Render(w io.Writer, result *models.PipelineResult) {
	fmt.Fprintf(w, "# Mutation report: %s\n\n", result.Gene)

	fmt.Fprintf(w, "## Variants (%d)\n\n", len(result.Variants))
	fmt.Fprint(w, prompt.RenderVariantTable(result.Variants))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Summary")
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Narrative)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "## Warnings")
		fmt.Fprintln(w)
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "- %s\n", warning)
		}
	}
}
