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

func newTournamentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTournamentRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newTournamentRepoMock(t)
	defer cleanup()

	repo := NewTournamentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO torneos")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	tournament := &models.Tournament{
		Name:      "Open de Otoño",
		Venue:     "Club Central",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(48 * time.Hour),
		Tags:      []string{models.TagAmateur},
	}
	require.NoError(t, repo.Create(context.Background(), tournament))
	require.Equal(t, int64(11), tournament.ID)

	rows := sqlmock.NewRows([]string{"id", "nombre", "sede", "fecha_inicio", "fecha_fin", "premio_dinero", "puntos", "imagen_url", "tags", "created_at", "updated_at"}).
		AddRow(11, "Open de Otoño", "Club Central", time.Now(), time.Now(), 0.0, 0, "", "{Amateur}", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nombre, sede, fecha_inicio, fecha_fin")).
		WithArgs(int64(11)).
		WillReturnRows(rows)

	found, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	require.Equal(t, "Open de Otoño", found.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTournamentRepositoryListCountsTotal(t *testing.T) {
	db, mock, cleanup := newTournamentRepoMock(t)
	defer cleanup()

	repo := NewTournamentRepository(db)
	rows := sqlmock.NewRows([]string{"id", "nombre", "sede", "fecha_inicio", "fecha_fin", "premio_dinero", "puntos", "imagen_url", "tags", "created_at", "updated_at"}).
		AddRow(11, "Open de Otoño", "Club Central", time.Now(), time.Now(), 0.0, 0, "", "{Amateur}", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, nombre, sede, fecha_inicio, fecha_fin")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM torneos")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TournamentFilter{Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}
