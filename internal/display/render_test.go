// internal/display/render_test.go
package display

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"varsight/internal/models"
)

func TestRender(t *testing.T) {
	result := &models.PipelineResult{
		RunID: uuid.New(),
		Gene:  "BRCA1",
		Variants: []models.VariantRecord{
			{
				HGVSName:       "NM_007294.4(BRCA1):c.68_69del",
				VariantType:    "Deletion",
				Classification: "Pathogenic",
				Condition:      "Breast-ovarian cancer",
			},
		},
		Narrative: "Truncating variants dominate.",
		Warnings:  []string{"no abstracts found for BRCA1"},
	}

	var buf strings.Builder
	Render(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "# Mutation report: BRCA1")
	assert.Contains(t, out, "## Variants (1)")
	assert.Contains(t, out, "| NM_007294.4(BRCA1):c.68_69del | Deletion | Pathogenic | Breast-ovarian cancer |")
	assert.Contains(t, out, "## Summary")
	assert.Contains(t, out, "Truncating variants dominate.")
	assert.Contains(t, out, "## Warnings")
	assert.Contains(t, out, "- no abstracts found for BRCA1")
}

func TestRender_NoWarnings_OmitsSection(t *testing.T) {
	result := &models.PipelineResult{
		RunID:     uuid.New(),
		Gene:      "TP53",
		Narrative: "narrative",
	}

	var buf strings.Builder
	Render(&buf, result)

	assert.NotContains(t, buf.String(), "## Warnings")
}
