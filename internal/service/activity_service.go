package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/events"
)

type activityStore interface {
	Create(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, limit, offset int) ([]models.Activity, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ActivityService exposes the recent-activity feed and its retention sweep.
// The feed is intentionally short-lived; anything older than the retention
// window is swept away, so it never serves as an audit trail.
type ActivityService struct {
	repo      activityStore
	bus       events.Bus
	retention time.Duration
	logger    *zap.Logger
}

// NewActivityService constructs the service.
func NewActivityService(repo activityStore, bus events.Bus, retention time.Duration, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retention <= 0 {
		retention = 48 * time.Hour
	}
	return &ActivityService{repo: repo, bus: bus, retention: retention, logger: logger}
}

// List returns feed entries, newest first.
func (s *ActivityService) List(ctx context.Context, limit, offset int) ([]models.Activity, error) {
	entries, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activities")
	}
	return entries, nil
}

// RecordUserRegistration appends a feed entry for a newly registered user and
// broadcasts it. Failures here never fail the registration itself.
func (s *ActivityService) RecordUserRegistration(ctx context.Context, user *models.User) {
	activity := &models.Activity{
		Date:        time.Now().UTC(),
		Kind:        models.ActivityUser,
		Description: fmt.Sprintf("Registro Usuario: %s", user.FullName),
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to record registration activity",
			zap.Int64("userId", user.ID), zap.Error(err))
		return
	}
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
		s.logger.Warn("failed to publish registration activity",
			zap.Int64("activityId", activity.ID), zap.Error(err))
	}
}

// Sweep removes entries older than the retention window and reports how many
// were deleted. Wired to the cleanup cron schedule.
func (s *ActivityService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention)
	removed, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sweep activities")
	}
	if removed > 0 {
		s.logger.Info("swept stale activities", zap.Int64("removed", removed))
	}
	return removed, nil
}
