package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/models"
	appErrors "github.com/padelcore/padelcore-api/pkg/errors"
)

type rankingRepoStub struct {
	byDate map[string][]models.RankingRecord
}

func newRankingRepoStub() *rankingRepoStub {
	return &rankingRepoStub{byDate: make(map[string][]models.RankingRecord)}
}

func (s *rankingRepoStub) ReplaceForDate(_ context.Context, date time.Time, records []models.RankingRecord) error {
	s.byDate[date.Format("2006-01-02")] = records
	return nil
}

func (s *rankingRepoStub) ListByDate(_ context.Context, date time.Time) ([]models.RankingRecord, error) {
	return s.byDate[date.Format("2006-01-02")], nil
}

func (s *rankingRepoStub) LatestDate(_ context.Context) (time.Time, error) {
	var latest time.Time
	for key := range s.byDate {
		date, _ := time.Parse("2006-01-02", key)
		if date.After(latest) {
			latest = date
		}
	}
	return latest, nil
}

type ratedUsersStub struct {
	users []models.User
}

func (s *ratedUsersStub) ListRated(_ context.Context) ([]models.User, error) {
	return s.users, nil
}

type rankingCacheStub struct {
	values map[string]interface{}
	hits   int
}

func newRankingCacheStub() *rankingCacheStub {
	return &rankingCacheStub{values: make(map[string]interface{})}
}

func (s *rankingCacheStub) Get(_ context.Context, key string, dest interface{}) error {
	value, ok := s.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	s.hits++
	records := value.([]models.RankingRecord)
	*dest.(*[]models.RankingRecord) = records
	return nil
}

func (s *rankingCacheStub) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	s.values[key] = value.([]models.RankingRecord)
	return nil
}

func (s *rankingCacheStub) DeleteByPattern(_ context.Context, _ string) error {
	s.values = make(map[string]interface{})
	return nil
}

func ratingOf(v float64) *float64 { return &v }

func TestRankingServiceGenerateSnapshotOrdersByRating(t *testing.T) {
	repo := newRankingRepoStub()
	users := &ratedUsersStub{users: []models.User{
		{ID: 1, Rating: ratingOf(9.5)},
		{ID: 2, Rating: ratingOf(7.0)},
		{ID: 3, Rating: ratingOf(4.2)},
	}}
	svc := NewRankingService(repo, users, nil, time.Minute, nil)

	count, err := svc.GenerateSnapshot(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, count)

	records, err := svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, 1, records[0].Position)
	require.Equal(t, int64(1), records[0].UserID)
	require.Equal(t, 3, records[2].Position)
}

func TestRankingServiceListUsesCache(t *testing.T) {
	repo := newRankingRepoStub()
	users := &ratedUsersStub{users: []models.User{{ID: 1, Rating: ratingOf(5)}}}
	cache := newRankingCacheStub()
	svc := NewRankingService(repo, users, cache, time.Minute, nil)

	_, err := svc.GenerateSnapshot(context.Background())
	require.NoError(t, err)

	_, err = svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Zero(t, cache.hits, "first read fills the cache")

	_, err = svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, cache.hits, "second read is served from cache")
}

type cacheMetricsStub struct {
	hits   int
	misses int
}

func (s *cacheMetricsStub) RecordCacheOperation(hit bool) {
	if hit {
		s.hits++
	} else {
		s.misses++
	}
}

func TestRankingServiceListRecordsCacheMetrics(t *testing.T) {
	repo := newRankingRepoStub()
	users := &ratedUsersStub{users: []models.User{{ID: 1, Rating: ratingOf(5)}}}
	cache := newRankingCacheStub()
	svc := NewRankingService(repo, users, cache, time.Minute, nil)
	metrics := &cacheMetricsStub{}
	svc.AttachMetrics(metrics)

	_, err := svc.GenerateSnapshot(context.Background())
	require.NoError(t, err)

	_, err = svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, metrics.misses)
	require.Zero(t, metrics.hits)

	_, err = svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Equal(t, 1, metrics.hits)
	require.Equal(t, 1, metrics.misses)
}

func TestRankingServiceSnapshotInvalidatesCache(t *testing.T) {
	repo := newRankingRepoStub()
	users := &ratedUsersStub{users: []models.User{{ID: 1, Rating: ratingOf(5)}}}
	cache := newRankingCacheStub()
	svc := NewRankingService(repo, users, cache, time.Minute, nil)

	_, err := svc.GenerateSnapshot(context.Background())
	require.NoError(t, err)
	_, err = svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.NotEmpty(t, cache.values)

	_, err = svc.GenerateSnapshot(context.Background())
	require.NoError(t, err)
	require.Empty(t, cache.values, "a new snapshot drops stale cache entries")
}

func TestRankingServiceEmptyWithoutSnapshot(t *testing.T) {
	svc := NewRankingService(newRankingRepoStub(), &ratedUsersStub{}, nil, time.Minute, nil)
	records, err := svc.List(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Empty(t, records)
}
