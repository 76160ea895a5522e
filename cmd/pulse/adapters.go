package main

import (
	"context"
	"time"

	"github.com/studiopulse/pulse/pkg/domain"
	"github.com/studiopulse/pulse/pkg/engagement"
	"github.com/studiopulse/pulse/pkg/repository"
)

// engagementService bundles the recorder and estimator behind the single
// interface the server consumes
type engagementService struct {
	*engagement.Recorder
	*engagement.Estimator
}

// digestStats joins the two repositories behind the digest worker's view
type digestStats struct {
	notifications *repository.NotificationRepository
	engagement    *repository.EngagementRepository
}

func (d *digestStats) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	return d.notifications.ActiveUsers(ctx, since)
}

func (d *digestStats) CategoryStats(ctx context.Context, userID string, since time.Time) ([]domain.CategoryStats, error) {
	return d.engagement.CategoryStats(ctx, userID, since)
}
