package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
	"github.com/padelcore/padelcore-api/pkg/jobs"
)

type rankingStore interface {
	ReplaceForDate(ctx context.Context, date time.Time, records []models.RankingRecord) error
	ListByDate(ctx context.Context, date time.Time) ([]models.RankingRecord, error)
	LatestDate(ctx context.Context) (time.Time, error)
}

type ratedUserLister interface {
	ListRated(ctx context.Context) ([]models.User, error)
}

type rankingCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetrics interface {
	RecordCacheOperation(hit bool)
}

// RankingService serves the daily ranking feed. Reads go through the Redis
// cache; snapshots are generated by a scheduled job or on demand through the
// async queue.
type RankingService struct {
	repo     rankingStore
	users    ratedUserLister
	cache    rankingCache
	queue    *jobs.Queue
	metrics  cacheMetrics
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewRankingService constructs the service. The queue may be nil, in which
// case EnqueueSnapshot generates synchronously.
func NewRankingService(repo rankingStore, users ratedUserLister, cache rankingCache, cacheTTL time.Duration, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &RankingService{repo: repo, users: users, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// AttachQueue wires the async snapshot queue after construction.
func (s *RankingService) AttachQueue(queue *jobs.Queue) {
	s.queue = queue
}

// AttachMetrics wires the Prometheus recorder after construction.
func (s *RankingService) AttachMetrics(metrics cacheMetrics) {
	s.metrics = metrics
}

// List returns the snapshot for the given date, or the most recent one when
// the date is zero.
func (s *RankingService) List(ctx context.Context, date time.Time) ([]models.RankingRecord, error) {
	if date.IsZero() {
		latest, err := s.repo.LatestDate(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve latest ranking date")
		}
		if latest.IsZero() {
			return []models.RankingRecord{}, nil
		}
		date = latest
	}

	key := rankingCacheKey(date)
	if s.cache != nil {
		var cached []models.RankingRecord
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.recordCache(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("ranking cache read failed", zap.String("key", key), zap.Error(err))
		}
		s.recordCache(false)
	}

	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ranking")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, records, s.cacheTTL); err != nil {
			s.logger.Warn("ranking cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return records, nil
}

// GenerateSnapshot builds today's ranking from current ratings: active users
// with a positive rating, best rating first, positions starting at 1.
// Re-running on the same day replaces the previous snapshot.
func (s *RankingService) GenerateSnapshot(ctx context.Context) (int, error) {
	users, err := s.users.ListRated(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rated users")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	now := time.Now().UTC()
	records := make([]models.RankingRecord, 0, len(users))
	for i, user := range users {
		rating := 0.0
		if user.Rating != nil {
			rating = *user.Rating
		}
		records = append(records, models.RankingRecord{
			ID:             uuid.NewString(),
			UserID:         user.ID,
			Date:           today,
			RatingSnapshot: rating,
			Position:       i + 1,
			CreatedAt:      now,
		})
	}

	if err := s.repo.ReplaceForDate(ctx, today, records); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store ranking snapshot")
	}
	if s.cache != nil {
		if err := s.cache.DeleteByPattern(ctx, "ranking:*"); err != nil {
			s.logger.Warn("failed to invalidate ranking cache", zap.Error(err))
		}
	}
	s.logger.Info("ranking snapshot generated",
		zap.Time("date", today), zap.Int("records", len(records)))
	return len(records), nil
}

// EnqueueSnapshot schedules snapshot generation on the worker queue, falling
// back to a synchronous run when no queue is attached.
func (s *RankingService) EnqueueSnapshot(ctx context.Context) error {
	if s.queue == nil {
		_, err := s.GenerateSnapshot(ctx)
		return err
	}
	job := jobs.Job{
		ID:   uuid.NewString(),
		Type: "ranking.snapshot",
	}
	if err := s.queue.Enqueue(job); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue ranking snapshot")
	}
	return nil
}

func (s *RankingService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func rankingCacheKey(date time.Time) string {
	return fmt.Sprintf("ranking:%s", date.Format("2006-01-02"))
}
