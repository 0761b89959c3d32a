package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/events"
)

type approvalRepoStub struct {
	approvals   map[int64]*models.Approval
	nextID      int64
	tournaments []*models.Tournament
	matches     []*models.Match
}

func newApprovalRepoStub() *approvalRepoStub {
	return &approvalRepoStub{approvals: make(map[int64]*models.Approval), nextID: 1}
}

func (s *approvalRepoStub) Create(_ context.Context, approval *models.Approval) error {
	approval.ID = s.nextID
	s.nextID++
	copy := *approval
	s.approvals[approval.ID] = &copy
	return nil
}

func (s *approvalRepoStub) GetByID(_ context.Context, id int64) (*models.Approval, error) {
	if approval, ok := s.approvals[id]; ok {
		copy := *approval
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (s *approvalRepoStub) List(_ context.Context, _ models.ApprovalFilter) ([]models.Approval, error) {
	result := make([]models.Approval, 0, len(s.approvals))
	for _, approval := range s.approvals {
		result = append(result, *approval)
	}
	return result, nil
}

func (s *approvalRepoStub) flip(id int64, status models.ApprovalStatus) error {
	approval, ok := s.approvals[id]
	if !ok || approval.Status != models.StatusPending {
		return sql.ErrNoRows
	}
	approval.Status = status
	return nil
}

func (s *approvalRepoStub) ApproveTournament(_ context.Context, id int64, tournament *models.Tournament) error {
	if err := s.flip(id, models.StatusApproved); err != nil {
		return err
	}
	tournament.ID = int64(len(s.tournaments) + 100)
	s.tournaments = append(s.tournaments, tournament)
	return nil
}

func (s *approvalRepoStub) ApproveMatch(_ context.Context, id int64, match *models.Match, _, _ []int64) error {
	if err := s.flip(id, models.StatusApproved); err != nil {
		return err
	}
	match.ID = int64(len(s.matches) + 200)
	s.matches = append(s.matches, match)
	return nil
}

func (s *approvalRepoStub) Reject(_ context.Context, id int64) error {
	return s.flip(id, models.StatusRejected)
}

type activityMirrorStub struct {
	entries map[int64]*models.Activity
	nextID  int64
}

func newActivityMirrorStub() *activityMirrorStub {
	return &activityMirrorStub{entries: make(map[int64]*models.Activity), nextID: 1}
}

func (s *activityMirrorStub) Create(_ context.Context, activity *models.Activity) error {
	activity.ID = s.nextID
	s.nextID++
	copy := *activity
	s.entries[activity.ID] = &copy
	return nil
}

func (s *activityMirrorStub) FindPendingByApprovalID(_ context.Context, approvalID int64) (*models.Activity, error) {
	for _, activity := range s.entries {
		if activity.ApprovalID != nil && *activity.ApprovalID == approvalID && activity.Status == models.StatusPending {
			copy := *activity
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *activityMirrorStub) UpdateTransition(_ context.Context, id int64, description string, status models.ApprovalStatus) error {
	activity, ok := s.entries[id]
	if !ok {
		return sql.ErrNoRows
	}
	activity.Description = description
	activity.Status = status
	return nil
}

type tournamentFinderStub struct {
	known map[int64]bool
}

func (s *tournamentFinderStub) GetByID(_ context.Context, id int64) (*models.Tournament, error) {
	if s.known[id] {
		return &models.Tournament{ID: id}, nil
	}
	return nil, sql.ErrNoRows
}

type rosterCheckerStub struct {
	known map[int64]bool
}

func (s *rosterCheckerStub) CountExisting(_ context.Context, ids []int64) (int, error) {
	count := 0
	for _, id := range ids {
		if s.known[id] {
			count++
		}
	}
	return count, nil
}

func newApprovalFixture() (*ApprovalService, *approvalRepoStub, *activityMirrorStub, *events.MemoryBus) {
	repo := newApprovalRepoStub()
	activities := newActivityMirrorStub()
	tournaments := &tournamentFinderStub{known: map[int64]bool{1: true}}
	users := &rosterCheckerStub{known: map[int64]bool{1: true, 2: true, 3: true, 4: true}}
	bus := events.NewMemoryBus()
	svc := NewApprovalService(repo, activities, tournaments, users, bus, nil)
	return svc, repo, activities, bus
}

func tournamentData(t *testing.T, name string) json.RawMessage {
	t.Helper()
	payload := dto.TournamentPayload{
		Name:      name,
		Venue:     "Club Central",
		StartDate: "2026-09-10",
		EndDate:   "2026-09-12",
		Tags:      []string{models.TagAmateur},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func matchData(t *testing.T) json.RawMessage {
	t.Helper()
	payload := dto.MatchPayload{
		TournamentID: 1,
		Date:         "2026-09-11",
		Time:         "18:30",
		Team1IDs:     []int64{1, 2},
		Team2IDs:     []int64{3, 4},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return raw
}

func TestApprovalServiceSubmitMirrorsActivity(t *testing.T) {
	svc, _, activities, bus := newApprovalFixture()
	sub, err := bus.Subscribe(context.Background(), events.GroupWorkflow)
	require.NoError(t, err)
	defer sub.Close()

	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: tournamentData(t, "Open de Otoño"),
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, approval.Status)

	mirror, err := activities.FindPendingByApprovalID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, "Registro Torneo: Open de Otoño", mirror.Description)
	require.Equal(t, models.ActivityTournament, mirror.Kind)

	select {
	case msg := <-sub.C:
		require.Equal(t, events.TypeWorkflow, msg.Type)
		event, ok := msg.Data.(dto.WorkflowEvent)
		require.True(t, ok)
		require.Equal(t, "Se creó una nueva aprobación en estado pending", event.Detail)
	case <-time.After(time.Second):
		t.Fatal("expected workflow event")
	}
}

func TestApprovalServiceSubmitWithoutNameFallsBack(t *testing.T) {
	svc, _, activities, _ := newApprovalFixture()
	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: json.RawMessage(`{"sede":"Club Central"}`),
	})
	require.NoError(t, err)

	mirror, err := activities.FindPendingByApprovalID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, "Registro Torneo: Sin nombre", mirror.Description)
}

func TestApprovalServiceSubmitRejectsUnknownKind(t *testing.T) {
	svc, _, _, _ := newApprovalFixture()
	_, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.ApprovalKind("sponsor"),
		Data: json.RawMessage(`{}`),
	})
	require.ErrorIs(t, err, appErrors.ErrUnsupportedKind)
}

func TestApprovalServiceApproveTournament(t *testing.T) {
	svc, repo, activities, _ := newApprovalFixture()
	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: tournamentData(t, "Open de Otoño"),
	})
	require.NoError(t, err)

	result, err := svc.Approve(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.KindTournament, result.Kind)
	require.NotZero(t, result.EntityID)
	require.Len(t, repo.tournaments, 1)
	require.Equal(t, "Open de Otoño", repo.tournaments[0].Name)

	stored, err := repo.GetByID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, stored.Status)

	mirror := activities.entries[1]
	require.Equal(t, "Aprobado Torneo: Open de Otoño", mirror.Description)
	require.Equal(t, models.StatusApproved, mirror.Status)
}

func TestApprovalServiceApproveMatchCreatesRoster(t *testing.T) {
	svc, repo, _, _ := newApprovalFixture()
	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindMatch,
		Data: matchData(t),
	})
	require.NoError(t, err)

	result, err := svc.Approve(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.KindMatch, result.Kind)
	require.Len(t, repo.matches, 1)
	require.Equal(t, int64(1), repo.matches[0].TournamentID)
}

func TestApprovalServiceApproveTwiceFails(t *testing.T) {
	svc, _, _, _ := newApprovalFixture()
	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: tournamentData(t, "Open de Otoño"),
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), approval.ID)
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), approval.ID)
	require.ErrorIs(t, err, appErrors.ErrAlreadyProcessed)

	err = svc.Reject(context.Background(), approval.ID)
	require.ErrorIs(t, err, appErrors.ErrAlreadyProcessed)
}

func TestApprovalServiceApproveValidatesBeforeWriting(t *testing.T) {
	svc, repo, _, _ := newApprovalFixture()

	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: json.RawMessage(`{"nombre":""}`),
	})
	require.NoError(t, err, "submit accepts drafts; the payload is only checked on approval")

	_, err = svc.Approve(context.Background(), approval.ID)
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status, "a failed validation must leave the request pending")
	require.Empty(t, repo.tournaments)
}

func TestApprovalServiceRejectKeepsEntityOut(t *testing.T) {
	svc, repo, activities, _ := newApprovalFixture()
	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindTournament,
		Data: tournamentData(t, "Open de Otoño"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Reject(context.Background(), approval.ID))
	require.Empty(t, repo.tournaments)

	stored, err := repo.GetByID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusRejected, stored.Status)

	mirror := activities.entries[1]
	require.Equal(t, "Rechazado Torneo: Open de Otoño", mirror.Description)
}

func TestApprovalServiceApproveMatchRejectsDuplicatePlayer(t *testing.T) {
	svc, repo, _, _ := newApprovalFixture()
	payload := dto.MatchPayload{
		TournamentID: 1,
		Date:         "2026-09-11",
		Team1IDs:     []int64{1, 2},
		Team2IDs:     []int64{2, 3},
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	approval, err := svc.Submit(context.Background(), dto.CreateApprovalRequest{
		Kind: models.KindMatch,
		Data: raw,
	})
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), approval.ID)
	require.Error(t, err)
	require.Empty(t, repo.matches)

	stored, err := repo.GetByID(context.Background(), approval.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, stored.Status)
}
