package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock, sqlDB
}

func TestRechargeRepository_ClaimForSubmission_Wins(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	// The guard lives in the WHERE clause: only a NULL-status row flips.
	mock.ExpectExec("UPDATE `recharges` SET").
		WithArgs(-1, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRechargeRepository(db)
	claimed, err := repo.ClaimForSubmission(1)
	require.NoError(t, err)
	assert.True(t, claimed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_ClaimForSubmission_AlreadyClaimed(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE `recharges` SET").
		WithArgs(-1, sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRechargeRepository(db)
	claimed, err := repo.ClaimForSubmission(1)
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_ClaimLimitExceeded(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE `recharges` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE `recharges` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewRechargeRepository(db)

	claimed, err := repo.ClaimLimitExceeded(1, time.Now())
	require.NoError(t, err)
	assert.True(t, claimed)

	// Second caller loses the NULL-status guard.
	claimed, err = repo.ClaimLimitExceeded(1, time.Now())
	require.NoError(t, err)
	assert.False(t, claimed)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_ResetSubmitting(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE `recharges` SET").
		WithArgs(sqlmock.AnyArg(), 7, -1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRechargeRepository(db)
	require.NoError(t, repo.ResetSubmitting(7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_MarkNotified(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE `recharges` SET").
		WithArgs(true, sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRechargeRepository(db)
	require.NoError(t, repo.MarkNotified(3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_CountErrors(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `recharge_errors`").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	repo := NewRechargeRepository(db)
	count, err := repo.CountErrors(5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRechargeRepository_ListStuckSubmitting(t *testing.T) {
	db, mock, sqlDB := setupMockDB(t)
	defer sqlDB.Close()

	cutoff := time.Now().Add(-time.Hour)
	rows := sqlmock.NewRows([]string{"id", "msisdn", "status"}).
		AddRow(4, "27821231232", -1)

	mock.ExpectQuery("SELECT \\* FROM `recharges`").
		WithArgs(-1, cutoff).
		WillReturnRows(rows)

	repo := NewRechargeRepository(db)
	recs, err := repo.ListStuckSubmitting(cutoff)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, uint(4), recs[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}
