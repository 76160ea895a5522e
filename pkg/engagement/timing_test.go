package engagement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiopulse/pulse/pkg/domain"
)

func TestEstimator_Estimate(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	estimator := NewEstimator(repos.Engagement)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "42", domain.CategoryBusinessUpdate, day)

	// views at hours 9, 9, 9 and 14
	for _, hour := range []int{9, 9, 9, 14} {
		_, err := recorder.Record(ctx, n.ID, "42", domain.EventViewed, day.Add(time.Duration(hour)*time.Hour))
		require.NoError(t, err)
	}

	estimate, err := estimator.Estimate(ctx, "42", domain.CategoryBusinessUpdate)
	require.NoError(t, err)
	assert.Equal(t, 9, estimate.OptimalHour)
	assert.InEpsilon(t, 0.75, estimate.Confidence, 0.0001)
	assert.Equal(t, 4, estimate.SampleSize)
	assert.False(t, estimate.Default)
}

func TestEstimator_NoHistoryReturnsDefault(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	estimator := NewEstimator(repos.Engagement)

	estimate, err := estimator.Estimate(context.Background(), "nobody", domain.CategoryMarketing)
	require.NoError(t, err)
	assert.Equal(t, DefaultHour, estimate.OptimalHour)
	assert.Zero(t, estimate.Confidence)
	assert.Zero(t, estimate.SampleSize)
	assert.True(t, estimate.Default)
}

func TestEstimator_OnlyViewedEventsCount(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	estimator := NewEstimator(repos.Engagement)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "user-1", domain.CategoryBusinessUpdate, day)

	// clicks and dismissals say nothing about when the user reads
	_, err := recorder.Record(ctx, n.ID, "user-1", domain.EventClicked, day.Add(8*time.Hour))
	require.NoError(t, err)
	_, err = recorder.Record(ctx, n.ID, "user-1", domain.EventDismissed, day.Add(22*time.Hour))
	require.NoError(t, err)

	estimate, err := estimator.Estimate(ctx, "user-1", domain.CategoryBusinessUpdate)
	require.NoError(t, err)
	assert.True(t, estimate.Default)
	assert.Equal(t, DefaultHour, estimate.OptimalHour)
}

func TestEstimator_ConfidenceBounds(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	recorder := NewRecorder(repos.Notification, repos.Engagement)
	estimator := NewEstimator(repos.Engagement)
	ctx := context.Background()

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	n := createNotification(t, repos, "user-1", domain.CategoryMarketing, day)

	// single event gives full confidence
	_, err := recorder.Record(ctx, n.ID, "user-1", domain.EventViewed, day.Add(19*time.Hour))
	require.NoError(t, err)

	estimate, err := estimator.Estimate(ctx, "user-1", domain.CategoryMarketing)
	require.NoError(t, err)
	assert.Equal(t, 19, estimate.OptimalHour)
	assert.InEpsilon(t, 1.0, estimate.Confidence, 0.0001)

	// a second view elsewhere dilutes confidence, never exceeding 1
	_, err = recorder.Record(ctx, n.ID, "user-1", domain.EventViewed, day.Add(7*time.Hour))
	require.NoError(t, err)

	estimate, err = estimator.Estimate(ctx, "user-1", domain.CategoryMarketing)
	require.NoError(t, err)
	assert.LessOrEqual(t, estimate.Confidence, 1.0)
	assert.Greater(t, estimate.Confidence, 0.0)
	assert.Equal(t, 2, estimate.SampleSize)
}

func TestEstimator_Validation(t *testing.T) {
	repos, cleanup := setupTestRepos(t)
	defer cleanup()

	estimator := NewEstimator(repos.Engagement)
	ctx := context.Background()

	_, err := estimator.Estimate(ctx, "", domain.CategoryMarketing)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = estimator.Estimate(ctx, "user-1", domain.Category("weather"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
