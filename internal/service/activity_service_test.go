package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/padelcore/padelcore-api/internal/dto"
	"github.com/padelcore/padelcore-api/internal/models"
	"github.com/padelcore/padelcore-api/pkg/events"
)

type activityRepoStub struct {
	entries []models.Activity
	nextID  int64
}

func (s *activityRepoStub) Create(_ context.Context, activity *models.Activity) error {
	s.nextID++
	activity.ID = s.nextID
	s.entries = append(s.entries, *activity)
	return nil
}

func (s *activityRepoStub) List(_ context.Context, limit, offset int) ([]models.Activity, error) {
	if offset >= len(s.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(s.entries) {
		end = len(s.entries)
	}
	return s.entries[offset:end], nil
}

func (s *activityRepoStub) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	kept := s.entries[:0]
	removed := int64(0)
	for _, entry := range s.entries {
		if entry.Date.After(cutoff) {
			kept = append(kept, entry)
		} else {
			removed++
		}
	}
	s.entries = kept
	return removed, nil
}

func TestActivityServiceRecordUserRegistration(t *testing.T) {
	repo := &activityRepoStub{}
	bus := events.NewMemoryBus()
	svc := NewActivityService(repo, bus, 48*time.Hour, nil)

	sub, err := bus.Subscribe(context.Background(), events.GroupActivity)
	require.NoError(t, err)
	defer sub.Close()

	svc.RecordUserRegistration(context.Background(), &models.User{ID: 3, FullName: "Ana García"})
	require.Len(t, repo.entries, 1)
	require.Equal(t, "Registro Usuario: Ana García", repo.entries[0].Description)
	require.Equal(t, models.ActivityUser, repo.entries[0].Kind)

	select {
	case msg := <-sub.C:
		require.Equal(t, events.TypeActivity, msg.Type)
		event, ok := msg.Data.(dto.ActivityEvent)
		require.True(t, ok)
		require.Equal(t, "Registro Usuario: Ana García", event.Description)
	case <-time.After(time.Second):
		t.Fatal("expected activity event")
	}
}

func TestActivityServiceSweep(t *testing.T) {
	repo := &activityRepoStub{}
	svc := NewActivityService(repo, nil, time.Hour, nil)

	stale := &models.Activity{Date: time.Now().UTC().Add(-2 * time.Hour), Description: "old"}
	fresh := &models.Activity{Date: time.Now().UTC(), Description: "new"}
	require.NoError(t, repo.Create(context.Background(), stale))
	require.NoError(t, repo.Create(context.Background(), fresh))

	removed, err := svc.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	require.Len(t, repo.entries, 1)
	require.Equal(t, "new", repo.entries[0].Description)
}
