// internal/report/writer.go

// Package report holds the persistence collaborators: a file sink writing the
// variant table and narrative per gene, and an optional PostgreSQL archive of
// completed runs.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	commonerrors "varsight/internal/common/errors"
	"varsight/internal/common/logger"
	"varsight/internal/models"
)

var csvHeader = []string{"HGVS", "Type", "Significance", "Condition"}

// Writer persists one pipeline result as a CSV variant table plus a plain
// text narrative, keyed by gene symbol.
type Writer struct {
	outputDir string
	logger    logger.Logger
}

func NewWriter(outputDir string, log logger.Logger) *Writer {
	return &Writer{
		outputDir: outputDir,
		logger: log.With(map[string]interface{}{
			"component": "report-writer",
		}),
	}
}

func (w *Writer) Persist(ctx context.Context, result *models.PipelineResult) error {
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return commonerrors.NewReportWriteFailedError(w.outputDir, err)
	}

	csvPath := filepath.Join(w.outputDir, fmt.Sprintf("%s_variants.csv", result.Gene))
	if err := w.writeVariantsCSV(csvPath, result.Variants); err != nil {
		return err
	}

	txtPath := filepath.Join(w.outputDir, fmt.Sprintf("%s_summary.txt", result.Gene))
	if err := os.WriteFile(txtPath, []byte(result.Narrative), 0o644); err != nil {
		return commonerrors.NewReportWriteFailedError(txtPath, err)
	}

	w.logger.Info("report written", map[string]interface{}{
		"gene":         result.Gene,
		"variantsFile": csvPath,
		"summaryFile":  txtPath,
	})

	return nil
}

func (w *Writer) writeVariantsCSV(path string, variants []models.VariantRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return commonerrors.NewReportWriteFailedError(path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return commonerrors.NewReportWriteFailedError(path, err)
	}
	for _, v := range variants {
		if err := cw.Write([]string{v.HGVSName, v.VariantType, v.Classification, v.Condition}); err != nil {
			return commonerrors.NewReportWriteFailedError(path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return commonerrors.NewReportWriteFailedError(path, err)
	}

	return nil
}
