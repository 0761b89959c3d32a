package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/events"
)

const calendarDay = "2006-01-02"

type approvalStore interface {
	Create(ctx context.Context, approval *models.Approval) error
	GetByID(ctx context.Context, id int64) (*models.Approval, error)
	List(ctx context.Context, filter models.ApprovalFilter) ([]models.Approval, error)
	ApproveTournament(ctx context.Context, id int64, tournament *models.Tournament) error
	ApproveMatch(ctx context.Context, id int64, match *models.Match, team1, team2 []int64) error
	Reject(ctx context.Context, id int64) error
}

type activityMirror interface {
	Create(ctx context.Context, activity *models.Activity) error
	FindPendingByApprovalID(ctx context.Context, approvalID int64) (*models.Activity, error)
	UpdateTransition(ctx context.Context, id int64, description string, status models.ApprovalStatus) error
}

type tournamentFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Tournament, error)
}

type rosterChecker interface {
	CountExisting(ctx context.Context, ids []int64) (int, error)
}

type approvalMetrics interface {
	ObserveApproval(kind, status string)
}

// ApprovalService runs the staged-request workflow: submissions enter as
// pending, an operator decision materializes (or discards) the entity, and
// every transition is mirrored into the activity feed and broadcast.
type ApprovalService struct {
	repo        approvalStore
	activities  activityMirror
	tournaments tournamentFinder
	users       rosterChecker
	bus         events.Bus
	metrics     approvalMetrics
	logger      *zap.Logger
}

// AttachMetrics wires the Prometheus recorder after construction.
func (s *ApprovalService) AttachMetrics(metrics approvalMetrics) {
	s.metrics = metrics
}

// NewApprovalService constructs the service.
func NewApprovalService(repo approvalStore, activities activityMirror, tournaments tournamentFinder, users rosterChecker, bus events.Bus, logger *zap.Logger) *ApprovalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApprovalService{
		repo:        repo,
		activities:  activities,
		tournaments: tournaments,
		users:       users,
		bus:         bus,
		logger:      logger,
	}
}

// Submit stages a new request in pending state and mirrors it into the
// activity feed. The payload is opaque at this point; it is only decoded and
// validated when an operator approves, so a half-filled draft can sit in the
// queue.
func (s *ApprovalService) Submit(ctx context.Context, req dto.CreateApprovalRequest) (*models.Approval, error) {
	if !models.ValidKind(req.Kind) {
		return nil, appErrors.ErrUnsupportedKind
	}
	description := "Registro Partido (pendiente)"
	if req.Kind == models.KindTournament {
		description = fmt.Sprintf("Registro Torneo: %s", payloadName(req.Data))
	}

	approval := &models.Approval{
		Kind:   req.Kind,
		Status: models.StatusPending,
		Data:   append(json.RawMessage(nil), req.Data...),
	}
	if err := s.repo.Create(ctx, approval); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create approval request")
	}

	activity := &models.Activity{
		Date:        time.Now().UTC(),
		Kind:        activityKindFor(approval.Kind),
		Description: description,
		Status:      models.StatusPending,
		ApprovalID:  &approval.ID,
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to mirror approval into activity feed",
			zap.Int64("approvalId", approval.ID), zap.Error(err))
	} else {
		s.publishActivity(ctx, activity)
	}
	s.publishWorkflow(ctx, approval, "Se creó una nueva aprobación en estado pending")
	s.observe(approval)
	return approval, nil
}

// Approve decides a pending request, creating the real entity. The payload
// is validated before any write so a malformed or unsupported request can
// never end up approved without its entity.
func (s *ApprovalService) Approve(ctx context.Context, id int64) (*dto.DecisionResult, error) {
	approval, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if approval.Status != models.StatusPending {
		return nil, appErrors.ErrAlreadyProcessed
	}
	if !models.ValidKind(approval.Kind) {
		return nil, appErrors.ErrUnsupportedKind
	}

	result := &dto.DecisionResult{Kind: approval.Kind}
	description := ""
	switch approval.Kind {
	case models.KindTournament:
		tournament, perr := parseTournamentPayload(approval.Data)
		if perr != nil {
			return nil, perr
		}
		if err := s.repo.ApproveTournament(ctx, id, tournament); err != nil {
			return nil, s.decisionError(err)
		}
		result.EntityID = tournament.ID
		description = fmt.Sprintf("Aprobado Torneo: %s", tournament.Name)
	case models.KindMatch:
		payload, perr := parseMatchPayload(ctx, approval.Data, s.tournaments, s.users)
		if perr != nil {
			return nil, perr
		}
		match := payload.toModel()
		if err := s.repo.ApproveMatch(ctx, id, match, payload.Team1IDs, payload.Team2IDs); err != nil {
			return nil, s.decisionError(err)
		}
		result.EntityID = match.ID
		description = "Aprobado Partido (creado)"
	}

	approval.Status = models.StatusApproved
	s.transitionActivity(ctx, id, description, models.StatusApproved)
	s.publishWorkflow(ctx, approval, "Se aprobó la solicitud")
	s.observe(approval)
	return result, nil
}

// Reject discards a pending request without materializing anything.
func (s *ApprovalService) Reject(ctx context.Context, id int64) error {
	approval, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if approval.Status != models.StatusPending {
		return appErrors.ErrAlreadyProcessed
	}
	if err := s.repo.Reject(ctx, id); err != nil {
		return s.decisionError(err)
	}

	description := "Rechazado Partido"
	if approval.Kind == models.KindTournament {
		description = fmt.Sprintf("Rechazado Torneo: %s", payloadName(approval.Data))
	}
	approval.Status = models.StatusRejected
	s.transitionActivity(ctx, id, description, models.StatusRejected)
	s.publishWorkflow(ctx, approval, "Se rechazó la solicitud")
	s.observe(approval)
	return nil
}

// List returns approvals matching the filter, newest first.
func (s *ApprovalService) List(ctx context.Context, filter models.ApprovalFilter) ([]models.Approval, error) {
	approvals, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list approvals")
	}
	return approvals, nil
}

// Get returns a single approval.
func (s *ApprovalService) Get(ctx context.Context, id int64) (*models.Approval, error) {
	return s.load(ctx, id)
}

func (s *ApprovalService) load(ctx context.Context, id int64) (*models.Approval, error) {
	approval, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load approval")
	}
	return approval, nil
}

// decisionError maps the conditional-update miss onto the contract error. A
// miss means another decision won the race after our status check.
func (s *ApprovalService) decisionError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.ErrAlreadyProcessed
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decide approval")
}

func (s *ApprovalService) transitionActivity(ctx context.Context, approvalID int64, description string, status models.ApprovalStatus) {
	activity, err := s.activities.FindPendingByApprovalID(ctx, approvalID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("failed to find activity for approval",
				zap.Int64("approvalId", approvalID), zap.Error(err))
		}
		return
	}
	if err := s.activities.UpdateTransition(ctx, activity.ID, description, status); err != nil {
		s.logger.Warn("failed to update activity transition",
			zap.Int64("activityId", activity.ID), zap.Error(err))
		return
	}
	activity.Description = description
	activity.Status = status
	activity.Date = time.Now().UTC()
	s.publishActivity(ctx, activity)
}

func (s *ApprovalService) publishWorkflow(ctx context.Context, approval *models.Approval, detail string) {
	if s.bus == nil {
		return
	}
	msg := events.Message{Type: events.TypeWorkflow, Data: dto.WorkflowEvent{
		ID:     approval.ID,
		Kind:   approval.Kind,
		Status: approval.Status,
		Detail: detail,
	}}
	if err := s.bus.Publish(ctx, events.GroupWorkflow, msg); err != nil {
		s.logger.Warn("failed to publish workflow event",
			zap.Int64("approvalId", approval.ID), zap.Error(err))
	}
}

func (s *ApprovalService) observe(approval *models.Approval) {
	if s.metrics != nil {
		s.metrics.ObserveApproval(string(approval.Kind), string(approval.Status))
	}
}

func (s *ApprovalService) publishActivity(ctx context.Context, activity *models.Activity) {
	if s.bus == nil {
		return
	}
	msg := events.Message{Type: events.TypeActivity, Data: dto.ActivityEvent{
		ID:          activity.ID,
		Date:        activity.Date,
		Kind:        activity.Kind,
		Description: activity.Description,
		Status:      activity.Status,
	}}
	if err := s.bus.Publish(ctx, events.GroupActivity, msg); err != nil {
		s.logger.Warn("failed to publish activity event",
			zap.Int64("activityId", activity.ID), zap.Error(err))
	}
}

// payloadName pulls nombre out of a staged document without validating the
// rest. Descriptions stay useful even for drafts that would fail approval;
// documents without the key fall back to "Sin nombre".
func payloadName(data json.RawMessage) string {
	var doc struct {
		Name *string `json:"nombre"`
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc.Name == nil {
		return "Sin nombre"
	}
	return *doc.Name
}

func activityKindFor(kind models.ApprovalKind) models.ActivityKind {
	if kind == models.KindMatch {
		return models.ActivityMatch
	}
	return models.ActivityTournament
}

// parseTournamentPayload decodes and fully validates a staged tournament
// document.
func parseTournamentPayload(data json.RawMessage) (*models.Tournament, error) {
	var payload dto.TournamentPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data is not a valid tournament payload")
	}
	return buildTournament(payload)
}

type matchPayload struct {
	dto.MatchPayload
	date time.Time
}

func (p *matchPayload) toModel() *models.Match {
	return &models.Match{
		TournamentID: p.TournamentID,
		Date:         p.date,
		Time:         p.Time,
		Result:       p.Result,
	}
}

// parseMatchPayload decodes and fully validates a staged match document,
// including tournament and roster existence checks.
func parseMatchPayload(ctx context.Context, data json.RawMessage, tournaments tournamentFinder, users rosterChecker) (*matchPayload, error) {
	var payload matchPayload
	if err := json.Unmarshal(data, &payload.MatchPayload); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "data is not a valid match payload")
	}
	if payload.TournamentID <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "torneo is required")
	}
	var err error
	if payload.date, err = time.Parse(calendarDay, payload.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "fecha must be YYYY-MM-DD")
	}
	if payload.Time != "" {
		if _, err := time.Parse("15:04", payload.Time); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "hora must be HH:MM")
		}
	}
	if !models.ValidResult(payload.Result) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "resultado must be empty, E1 or E2")
	}
	if len(payload.Team1IDs) != models.TeamSize || len(payload.Team2IDs) != models.TeamSize {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("each team must have exactly %d players", models.TeamSize))
	}
	roster := make([]int64, 0, 2*models.TeamSize)
	seen := make(map[int64]struct{}, 2*models.TeamSize)
	for _, id := range append(append([]int64{}, payload.Team1IDs...), payload.Team2IDs...) {
		if id <= 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "player ids must be positive")
		}
		if _, dup := seen[id]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, "a player cannot appear twice in the same match")
		}
		seen[id] = struct{}{}
		roster = append(roster, id)
	}

	if _, err := tournaments.GetByID(ctx, payload.TournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "torneo does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify tournament")
	}
	count, err := users.CountExisting(ctx, roster)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify players")
	}
	if count != len(roster) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "all players must be registered users")
	}
	return &payload, nil
}
