// internal/report/postgres_store.go
package report

import (
	"context"
	"database/sql"
	"strings"
	"time"

	commonerrors "varsight/internal/common/errors"
	"varsight/internal/common/logger"
	"varsight/internal/models"
)

const insertRunQuery = `
	INSERT INTO pipeline_runs (run_id, gene, variant_count, narrative, warnings, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

// PostgresStore archives completed pipeline runs. It is optional; the file
// Writer remains the primary persistence collaborator.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db: db,
		logger: log.With(map[string]interface{}{
			"component": "report-archive",
		}),
	}
}

func (s *PostgresStore) Persist(ctx context.Context, result *models.PipelineResult) error {
	_, err := s.db.ExecContext(ctx, insertRunQuery,
		result.RunID.String(),
		result.Gene,
		len(result.Variants),
		result.Narrative,
		strings.Join(result.Warnings, "\n"),
		time.Now().UTC(),
	)
	if err != nil {
		return commonerrors.NewReportArchiveFailedError(err)
	}

	s.logger.Info("run archived", map[string]interface{}{
		"runId": result.RunID.String(),
		"gene":  result.Gene,
	})

	return nil
}
