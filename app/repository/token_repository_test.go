package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_UpsertKeepsSingleRow(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	// First login inserts the fixed-ID row.
	mock.ExpectExec("INSERT INTO `store_tokens` .*ON DUPLICATE KEY UPDATE").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	// Every later login hits the conflict branch and overwrites in place;
	// MySQL reports two affected rows for a duplicate-key update.
	mock.ExpectExec("INSERT INTO `store_tokens` .*ON DUPLICATE KEY UPDATE").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 2))

	repo := NewTokenRepository(db)

	issued := time.Date(2015, 5, 13, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Upsert("first-token", issued, issued.Add(time.Hour)))
	require.NoError(t, repo.Upsert("second-token", issued.Add(time.Hour), issued.Add(2*time.Hour)))

	require.NoError(t, mock.ExpectationsWereMet())
}
