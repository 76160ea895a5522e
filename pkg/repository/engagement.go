package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"

	"github.com/studiopulse/pulse/pkg/domain"
)

// EngagementRepository handles engagement event persistence and aggregation
type EngagementRepository struct {
	db *sqlx.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *sqlx.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

// Create inserts a new engagement event and sets its ID. Events are
// insert-only; repeated events for the same notification accumulate.
func (r *EngagementRepository) Create(ctx context.Context, e *domain.EngagementEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	row := &engagementRow{
		NotificationID: e.NotificationID,
		UserID:         e.UserID,
		Kind:           string(e.Kind),
		OccurredAt:     e.OccurredAt,
		OccurredHour:   e.OccurredAt.UTC().Hour(),
		LatencyMs:      e.Latency.Milliseconds(),
		CreatedAt:      e.CreatedAt,
	}

	query := `
		INSERT INTO engagement_events (notification_id, user_id, kind, occurred_at, occurred_hour, latency_ms, created_at)
		VALUES (:notification_id, :user_id, :kind, :occurred_at, :occurred_hour, :latency_ms, :created_at)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		result, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("create engagement event: %w", err)}
		}

		id, err := result.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get insert id: %w", err)}
		}
		e.ID = id
		return nil
	})
}

// Get retrieves a single engagement event by ID
func (r *EngagementRepository) Get(ctx context.Context, id int64) (*domain.EngagementEvent, error) {
	var row engagementRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM engagement_events WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("engagement event %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get engagement event: %w", err)
	}
	return toDomainEvent(&row), nil
}

// GetByNotification retrieves all events recorded for a notification,
// oldest first
func (r *EngagementRepository) GetByNotification(ctx context.Context, notificationID int64) ([]domain.EngagementEvent, error) {
	var rows []engagementRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM engagement_events WHERE notification_id = ? ORDER BY occurred_at, id", notificationID)
	if err != nil {
		return nil, fmt.Errorf("get events by notification: %w", err)
	}

	events := make([]domain.EngagementEvent, len(rows))
	for i, row := range rows {
		events[i] = *toDomainEvent(&row)
	}
	return events, nil
}

// HourHistogram returns per-hour-of-day event counts for a user, category
// and event kind. Hours without events are absent from the map. The hour
// bucket is the UTC hour captured at insert time.
func (r *EngagementRepository) HourHistogram(ctx context.Context, userID string, category domain.Category, kind domain.EventKind) (map[int]int, error) {
	query := `
		SELECT e.occurred_hour AS hour, COUNT(*) AS hits
		FROM engagement_events e
		JOIN notifications n ON n.id = e.notification_id
		WHERE e.user_id = ? AND e.kind = ? AND n.category = ?
		GROUP BY e.occurred_hour
	`
	var rows []struct {
		Hour int `db:"hour"`
		Hits int `db:"hits"`
	}
	err := r.db.SelectContext(ctx, &rows, query, userID, string(kind), string(category))
	if err != nil {
		return nil, fmt.Errorf("hour histogram: %w", err)
	}

	histogram := make(map[int]int, len(rows))
	for _, row := range rows {
		histogram[row.Hour] = row.Hits
	}
	return histogram, nil
}

// CategoryStats aggregates engagement counts and average latency per
// category for a user since the cutoff, feeding the insight prompt
func (r *EngagementRepository) CategoryStats(ctx context.Context, userID string, since time.Time) ([]domain.CategoryStats, error) {
	query := `
		SELECT n.category AS category,
		       COUNT(*) AS total,
		       SUM(CASE WHEN e.kind = 'viewed' THEN 1 ELSE 0 END) AS viewed,
		       SUM(CASE WHEN e.kind = 'clicked' THEN 1 ELSE 0 END) AS clicked,
		       SUM(CASE WHEN e.kind = 'dismissed' THEN 1 ELSE 0 END) AS dismissed,
		       CAST(AVG(e.latency_ms) AS INTEGER) AS avg_latency_ms
		FROM engagement_events e
		JOIN notifications n ON n.id = e.notification_id
		WHERE e.user_id = ? AND e.occurred_at >= ?
		GROUP BY n.category
		ORDER BY total DESC
	`
	var rows []struct {
		Category     string `db:"category"`
		Total        int    `db:"total"`
		Viewed       int    `db:"viewed"`
		Clicked      int    `db:"clicked"`
		Dismissed    int    `db:"dismissed"`
		AvgLatencyMs int64  `db:"avg_latency_ms"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID, since); err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	stats := make([]domain.CategoryStats, 0, len(rows))
	for _, row := range rows {
		st := domain.CategoryStats{
			Category:   domain.Category(row.Category),
			Total:      row.Total,
			Viewed:     row.Viewed,
			Clicked:    row.Clicked,
			Dismissed:  row.Dismissed,
			AvgLatency: time.Duration(row.AvgLatencyMs) * time.Millisecond,
		}

		// best viewed hour for the category, ties broken by earliest hour
		histogram, err := r.HourHistogram(ctx, userID, st.Category, domain.EventViewed)
		if err != nil {
			return nil, err
		}
		for hour := 0; hour < 24; hour++ {
			if hits := histogram[hour]; hits > st.BestHourHits {
				st.BestHour, st.BestHourHits = hour, hits
			}
		}
		stats = append(stats, st)
	}
	return stats, nil
}
