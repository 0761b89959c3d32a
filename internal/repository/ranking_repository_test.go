package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/models"
)

func newRankingRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRankingRepositoryReplaceForDate(t *testing.T) {
	db, mock, cleanup := newRankingRepoMock(t)
	defer cleanup()

	repo := NewRankingRepository(db)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []models.RankingRecord{
		{ID: "a", UserID: 3, Date: day, RatingSnapshot: 4.5, Position: 1, CreatedAt: day},
		{ID: "b", UserID: 7, Date: day, RatingSnapshot: 3.2, Position: 2, CreatedAt: day},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ranking_records WHERE fecha = $1")).
		WithArgs(day).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ranking_records")).
		WithArgs("a", int64(3), day, 4.5, 1, day).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ranking_records")).
		WithArgs("b", int64(7), day, 3.2, 2, day).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceForDate(context.Background(), day, records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRankingRepositoryReplaceForDateRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newRankingRepoMock(t)
	defer cleanup()

	repo := NewRankingRepository(db)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	records := []models.RankingRecord{
		{ID: "a", UserID: 3, Date: day, RatingSnapshot: 4.5, Position: 1, CreatedAt: day},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM ranking_records WHERE fecha = $1")).
		WithArgs(day).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ranking_records")).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	require.Error(t, repo.ReplaceForDate(context.Background(), day, records))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRankingRepositoryListByDate(t *testing.T) {
	db, mock, cleanup := newRankingRepoMock(t)
	defer cleanup()

	repo := NewRankingRepository(db)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "usuario_id", "fecha", "rating_snapshot", "posicion", "created_at"}).
		AddRow("a", 3, day, 4.5, 1, day).
		AddRow("b", 7, day, 3.2, 2, day)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, usuario_id, fecha, rating_snapshot, posicion, created_at")).
		WithArgs(day).
		WillReturnRows(rows)

	records, err := repo.ListByDate(context.Background(), day)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, 1, records[0].Position)
	require.Equal(t, int64(7), records[1].UserID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRankingRepositoryLatestDate(t *testing.T) {
	db, mock, cleanup := newRankingRepoMock(t)
	defer cleanup()

	repo := NewRankingRepository(db)
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(fecha) FROM ranking_records")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(day))

	latest, err := repo.LatestDate(context.Background())
	require.NoError(t, err)
	require.Equal(t, day, latest)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT MAX(fecha) FROM ranking_records")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

	latest, err = repo.LatestDate(context.Background())
	require.NoError(t, err)
	require.True(t, latest.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
