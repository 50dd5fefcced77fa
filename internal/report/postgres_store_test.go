// internal/report/postgres_store_test.go
package report

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "varsight/internal/common/errors"
	"varsight/internal/common/logger"
)

func TestPostgresStore_Persist(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	result := testResult()
	mock.ExpectExec("INSERT INTO pipeline_runs").
		WithArgs(
			result.RunID.String(),
			"BRCA1",
			2,
			result.Narrative,
			"no abstracts found for BRCA1",
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewPostgresStore(db, logger.NewTestLogger(t))
	require.NoError(t, store.Persist(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Persist_InsertFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO pipeline_runs").
		WillReturnError(errors.New("connection reset"))

	store := NewPostgresStore(db, logger.NewTestLogger(t))
	persistErr := store.Persist(context.Background(), testResult())

	require.Error(t, persistErr)
	assert.Equal(t, commonerrors.ErrCodeReportArchiveFailed, commonerrors.CodeOf(persistErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}
