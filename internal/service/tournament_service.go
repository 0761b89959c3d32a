package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
)

type tournamentStore interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int64) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, int, error)
	Update(ctx context.Context, t *models.Tournament) error
	Delete(ctx context.Context, id int64) error
}

// TournamentService manages torneos created directly by operators. Player
// submissions flow through the approval workflow instead.
type TournamentService struct {
	repo   tournamentStore
	logger *zap.Logger
}

// NewTournamentService constructs the service.
func NewTournamentService(repo tournamentStore, logger *zap.Logger) *TournamentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TournamentService{repo: repo, logger: logger}
}

// Create validates and persists a new torneo.
func (s *TournamentService) Create(ctx context.Context, req dto.TournamentPayload) (*models.Tournament, error) {
	tournament, err := buildTournament(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tournament); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tournament")
	}
	return tournament, nil
}

// Get returns a torneo by id.
func (s *TournamentService) Get(ctx context.Context, id int64) (*models.Tournament, error) {
	tournament, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tournament")
	}
	return tournament, nil
}

// List returns torneos matching the filter plus the total count.
func (s *TournamentService) List(ctx context.Context, filter models.TournamentFilter) ([]models.Tournament, int, error) {
	tournaments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tournaments")
	}
	return tournaments, total, nil
}

// Update replaces the mutable fields of an existing torneo.
func (s *TournamentService) Update(ctx context.Context, id int64, req dto.TournamentPayload) (*models.Tournament, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := buildTournament(req)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tournament")
	}
	return updated, nil
}

// Delete removes a torneo.
func (s *TournamentService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tournament")
	}
	return nil
}

func buildTournament(req dto.TournamentPayload) (*models.Tournament, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nombre is required")
	}
	if strings.TrimSpace(req.Venue) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "sede is required")
	}
	start, err := time.Parse(calendarDay, req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_inicio must be YYYY-MM-DD")
	}
	end, err := time.Parse(calendarDay, req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha_fin must not precede fecha_inicio")
	}
	if err := validateTournamentTags(req.Tags); err != nil {
		return nil, err
	}
	if req.ImageURL != "" {
		parsed, err := url.ParseRequestURI(req.ImageURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return nil, appErrors.Clone(appErrors.ErrValidation, "imagen_url must be a valid http(s) URL")
		}
	}
	return &models.Tournament{
		Name:       req.Name,
		Venue:      req.Venue,
		StartDate:  start,
		EndDate:    end,
		PrizeMoney: req.PrizeMoney,
		Points:     req.Points,
		ImageURL:   req.ImageURL,
		Tags:       req.Tags,
	}, nil
}

func validateTournamentTags(tags []string) error {
	if len(tags) > models.MaxTournamentTags {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("at most %d tags are allowed", models.MaxTournamentTags))
	}
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return appErrors.Clone(appErrors.ErrValidation, "tags must not be empty")
		}
		if _, dup := seen[tag]; dup {
			return appErrors.Clone(appErrors.ErrValidation, "tags must not repeat")
		}
		seen[tag] = struct{}{}
	}
	_, amateur := seen[models.TagAmateur]
	_, pro := seen[models.TagProfesional]
	if amateur && pro {
		return appErrors.Clone(appErrors.ErrValidation, "Amateur and Profesional tags are mutually exclusive")
	}
	return nil
}
