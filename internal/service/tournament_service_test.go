package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
)

type tournamentRepoStub struct {
	items  map[int64]*models.Tournament
	nextID int64
}

func newTournamentRepoStub() *tournamentRepoStub {
	return &tournamentRepoStub{items: make(map[int64]*models.Tournament), nextID: 1}
}

func (s *tournamentRepoStub) Create(_ context.Context, t *models.Tournament) error {
	t.ID = s.nextID
	s.nextID++
	copy := *t
	s.items[t.ID] = &copy
	return nil
}

func (s *tournamentRepoStub) GetByID(_ context.Context, id int64) (*models.Tournament, error) {
	if t, ok := s.items[id]; ok {
		copy := *t
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *tournamentRepoStub) List(_ context.Context, _ models.TournamentFilter) ([]models.Tournament, int, error) {
	result := make([]models.Tournament, 0, len(s.items))
	for _, t := range s.items {
		result = append(result, *t)
	}
	return result, len(result), nil
}

func (s *tournamentRepoStub) Update(_ context.Context, t *models.Tournament) error {
	if _, ok := s.items[t.ID]; !ok {
		return sql.ErrNoRows
	}
	copy := *t
	s.items[t.ID] = &copy
	return nil
}

func (s *tournamentRepoStub) Delete(_ context.Context, id int64) error {
	delete(s.items, id)
	return nil
}

func validTournamentReq() dto.TournamentPayload {
	return dto.TournamentPayload{
		Name:      "Open de Otoño",
		Venue:     "Club Central",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
		Tags:      []string{models.TagAmateur},
	}
}

func TestTournamentServiceCreate(t *testing.T) {
	svc := NewTournamentService(newTournamentRepoStub(), nil)
	created, err := svc.Create(context.Background(), validTournamentReq())
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "Open de Otoño", created.Name)
}

func TestTournamentServiceTagRules(t *testing.T) {
	svc := NewTournamentService(newTournamentRepoStub(), nil)

	req := validTournamentReq()
	req.Tags = []string{models.TagAmateur, models.TagProfesional}
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err, "Amateur and Profesional together must be rejected")

	req.Tags = []string{"A", "B", "C", "D"}
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err, "more than three tags must be rejected")

	req.Tags = []string{"A", "A"}
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err, "duplicate tags must be rejected")

	req.Tags = []string{models.TagProfesional, "Nocturno"}
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestTournamentServiceDateAndURLValidation(t *testing.T) {
	svc := NewTournamentService(newTournamentRepoStub(), nil)

	req := validTournamentReq()
	req.EndDate = "2026-09-01"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err, "end date before start date must be rejected")

	req = validTournamentReq()
	req.ImageURL = "not a url"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validTournamentReq()
	req.ImageURL = "https://cdn.example.com/torneo.png"
	_, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestTournamentServiceGetNotFound(t *testing.T) {
	svc := NewTournamentService(newTournamentRepoStub(), nil)
	_, err := svc.Get(context.Background(), 99)
	require.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestTournamentServiceUpdatePreservesCreation(t *testing.T) {
	repo := newTournamentRepoStub()
	svc := NewTournamentService(repo, nil)
	created, err := svc.Create(context.Background(), validTournamentReq())
	require.NoError(t, err)

	req := validTournamentReq()
	req.Name = "Open de Invierno"
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, "Open de Invierno", updated.Name)
	require.Equal(t, created.CreatedAt, updated.CreatedAt)
}
