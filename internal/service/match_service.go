package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
)

type matchStore interface {
	Create(ctx context.Context, m *models.Match, team1, team2 []int64) error
	GetByID(ctx context.Context, id int64) (*models.Match, error)
	List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error)
	UpdateResult(ctx context.Context, id int64, result models.MatchResult) error
	Delete(ctx context.Context, id int64) error
}

// MatchService manages partidos created directly by operators. Player
// submissions flow through the approval workflow instead.
type MatchService struct {
	repo        matchStore
	tournaments tournamentFinder
	users       rosterChecker
	logger      *zap.Logger
}

// NewMatchService constructs the service.
func NewMatchService(repo matchStore, tournaments tournamentFinder, users rosterChecker, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{repo: repo, tournaments: tournaments, users: users, logger: logger}
}

// Create validates and persists a new partido with its roster.
func (s *MatchService) Create(ctx context.Context, req dto.MatchPayload) (*models.Match, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode match payload")
	}
	payload, err := parseMatchPayload(ctx, raw, s.tournaments, s.users)
	if err != nil {
		return nil, err
	}
	match := payload.toModel()
	if err := s.repo.Create(ctx, match, payload.Team1IDs, payload.Team2IDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create match")
	}
	return s.Get(ctx, match.ID)
}

// Get returns a partido with its roster.
func (s *MatchService) Get(ctx context.Context, id int64) (*models.Match, error) {
	match, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load match")
	}
	return match, nil
}

// List returns partidos matching the filter.
func (s *MatchService) List(ctx context.Context, filter models.MatchFilter) ([]models.Match, error) {
	matches, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list matches")
	}
	return matches, nil
}

// SetResult records the outcome of a played partido.
func (s *MatchService) SetResult(ctx context.Context, id int64, result models.MatchResult) (*models.Match, error) {
	if result == models.ResultUndecided || !models.ValidResult(result) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "resultado must be E1 or E2")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateResult(ctx, id, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update match result")
	}
	return s.Get(ctx, id)
}

// Delete removes a partido and its roster rows.
func (s *MatchService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete match")
	}
	return nil
}
