package engagement

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/pulse/pkg/domain"
	"github.com/studiopulse/pulse/pkg/repository"
)

func setupTestRepos(t *testing.T) (repos *repository.Repositories, cleanup func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test-*.db")
	require.NoError(t, err)
	tmpFile.Close()

	repos, err = repository.New(context.Background(), repository.Config{
		DSN:          "file:" + tmpFile.Name() + "?mode=rwc",
		MaxOpenConns: 1,
	})
	require.NoError(t, err)

	cleanup = func() {
		repos.Close()
		os.Remove(tmpFile.Name())
	}

	return repos, cleanup
}

func createNotification(t *testing.T, repos *repository.Repositories, userID string, category domain.Category, createdAt time.Time) *domain.Notification {
	t.Helper()

	n := &domain.Notification{
		UserID:    userID,
		Category:  category,
		Priority:  domain.PriorityMedium,
		Title:     "Test Notification",
		Message:   "test body",
		CreatedAt: createdAt,
	}
	require.NoError(t, repos.Notification.Create(context.Background(), n))
	return n
}

func TestRecorder_Record(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, created)

	event, err := recorder.Record(ctx, n.ID, "user-1", domain.EventViewed, created.Add(90*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, event.Latency)
	assert.Equal(t, domain.EventViewed, event.Kind)
	assert.NotZero(t, event.ID)

	// persisted event is individually retrievable
	got, err := repos.Engagement.Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, n.ID, got.NotificationID)
	assert.Equal(t, 90*time.Second, got.Latency)
}

func TestRecorder_LatencyClampedToZero(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, created)

	// client clock behind the server, event timestamp before creation
	event, err := recorder.Record(ctx, n.ID, "user-1", domain.EventDelivered, created.Add(-30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), event.Latency)
}

func TestRecorder_ZeroTimestampDefaultsToNow(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, time.Now().UTC().Add(-time.Minute))

	event, err := recorder.Record(ctx, n.ID, "user-1", domain.EventViewed, time.Time{})
	require.NoError(t, err)
	assert.False(t, event.OccurredAt.IsZero())
	assert.InDelta(t, time.Minute.Seconds(), event.Latency.Seconds(), 10)
}

func TestRecorder_Validation(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, time.Now().UTC())

	tests := []struct {
		name           string
		notificationID int64
		userID         string
		kind           domain.EventKind
	}{
		{"unknown kind", n.ID, "user-1", domain.EventKind("opened")},
		{"empty kind", n.ID, "user-1", ""},
		{"zero notification id", 0, "user-1", domain.EventViewed},
		{"negative notification id", -5, "user-1", domain.EventViewed},
		{"empty user id", n.ID, "", domain.EventViewed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := recorder.Record(ctx, tt.notificationID, tt.userID, tt.kind, time.Now().UTC())
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestRecorder_UnknownOrForeignNotification(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, time.Now().UTC())

	_, err := recorder.Record(ctx, 99999, "user-1", domain.EventViewed, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// someone else's notification looks like a missing one
	_, err = recorder.Record(ctx, n.ID, "user-2", domain.EventViewed, time.Now().UTC())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecorder_RepeatedEventsAccumulate(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, created)

	for i := 0; i < 3; i++ {
		_, err := recorder.Record(ctx, n.ID, "user-1", domain.EventViewed, created.Add(time.Duration(i+1)*time.Minute))
		require.NoError(t, err)
	}

	events, err := repos.Engagement.GetByNotification(ctx, n.ID)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}
