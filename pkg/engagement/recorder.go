package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/studiopulse/pulse/pkg/domain"
)

// NotificationStore is the notification access the recorder needs
type NotificationStore interface {
	Get(ctx context.Context, id int64, userID string) (*domain.Notification, error)
}

// EventStore is the event access the recorder and estimator need
type EventStore interface {
	Create(ctx context.Context, e *domain.EngagementEvent) error
	HourHistogram(ctx context.Context, userID string, category domain.Category, kind domain.EventKind) (map[int]int, error)
}

// Recorder durably records user interactions with notifications and derives
// response latency from the owning notification's creation time
type Recorder struct {
	notifications NotificationStore
	events        EventStore
}

// NewRecorder creates a new engagement recorder
func NewRecorder(notifications NotificationStore, events EventStore) *Recorder {
	return &Recorder{notifications: notifications, events: events}
}

// Record validates and persists an engagement event. The notification must
// exist and belong to userID. Latency is the gap between the notification's
// creation and the supplied client timestamp, clamped to zero when the
// client clock runs behind.
func (r *Recorder) Record(ctx context.Context, notificationID int64, userID string, kind domain.EventKind, occurredAt time.Time) (*domain.EngagementEvent, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("event kind %q: %w", kind, domain.ErrValidation)
	}
	if notificationID <= 0 {
		return nil, fmt.Errorf("notification id is required: %w", domain.ErrValidation)
	}
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", domain.ErrValidation)
	}
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	notification, err := r.notifications.Get(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}

	latency := occurredAt.Sub(notification.CreatedAt)
	if latency < 0 {
		latency = 0
	}

	event := &domain.EngagementEvent{
		NotificationID: notificationID,
		UserID:         userID,
		Kind:           kind,
		OccurredAt:     occurredAt,
		Latency:        latency,
	}
	if err := r.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("record engagement: %w", err)
	}

	lgr.Printf("[DEBUG] recorded %s event for notification %d, latency %v", kind, notificationID, latency)
	return event, nil
}
