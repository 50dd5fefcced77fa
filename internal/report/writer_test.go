// internal/report/writer_test.go
package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "varsight/internal/common/errors"
	"varsight/internal/common/logger"
	"varsight/internal/models"
)

func testResult() *models.PipelineResult {
	return &models.PipelineResult{
		RunID: uuid.New(),
		Gene:  "BRCA1",
		Variants: []models.VariantRecord{
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
		},
		Narrative: "BRCA1 truncating variants are strongly associated with hereditary breast and ovarian cancer.",
		Warnings:  []string{"no abstracts found for BRCA1"},
	}
}

func TestWriter_Persist(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, logger.NewTestLogger(t))

	require.NoError(t, writer.Persist(context.Background(), testResult()))

	csvBytes, err := os.ReadFile(filepath.Join(dir, "BRCA1_variants.csv"))
	require.NoError(t, err)
	assert.Equal(t,
		"HGVS,Type,Significance,Condition\n"+
			"NM_007294.4(BRCA1):c.68_69del,Deletion,Pathogenic,\"Breast-ovarian cancer, familial 1\"\n"+
			"NM_007294.4(BRCA1):c.5266dup,Duplication,Likely pathogenic,Unknown\n",
		string(csvBytes))

	txtBytes, err := os.ReadFile(filepath.Join(dir, "BRCA1_summary.txt"))
	require.NoError(t, err)
	assert.Equal(t, "BRCA1 truncating variants are strongly associated with hereditary breast and ovarian cancer.", string(txtBytes))
}

func TestWriter_Persist_NoVariants_HeaderOnlyCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, logger.NewTestLogger(t))

	result := testResult()
	result.Variants = nil
	require.NoError(t, writer.Persist(context.Background(), result))

	csvBytes, err := os.ReadFile(filepath.Join(dir, "BRCA1_variants.csv"))
	require.NoError(t, err)
	assert.Equal(t, "HGVS,Type,Significance,Condition\n", string(csvBytes))
}

func TestWriter_Persist_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	writer := NewWriter(dir, logger.NewTestLogger(t))

	require.NoError(t, writer.Persist(context.Background(), testResult()))

	_, err := os.Stat(filepath.Join(dir, "BRCA1_summary.txt"))
	assert.NoError(t, err)
}

func TestWriter_Persist_OutputDirIsFile(t *testing.T) {
	dir := t.TempDir()
	blocked := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	writer := NewWriter(blocked, logger.NewTestLogger(t))
	err := writer.Persist(context.Background(), testResult())

	require.Error(t, err)
	assert.Equal(t, commonerrors.ErrCodeReportWriteFailed, commonerrors.CodeOf(err))
}
