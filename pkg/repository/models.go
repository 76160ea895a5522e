package repository

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studiopulse/pulse/pkg/domain"
)

// notificationRow is the database representation of a notification
type notificationRow struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	Category  string    `db:"category"`
	Priority  string    `db:"priority"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Read      bool      `db:"read"`
	Metadata  metadata  `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
}

// engagementRow is the database representation of an engagement event
type engagementRow struct {
	ID             int64     `db:"id"`
	NotificationID int64     `db:"notification_id"`
	UserID         string    `db:"user_id"`
	Kind           string    `db:"kind"`
	OccurredAt     time.Time `db:"occurred_at"`
	OccurredHour   int       `db:"occurred_hour"`
	LatencyMs      int64     `db:"latency_ms"`
	CreatedAt      time.Time `db:"created_at"`
}

// metadata stores free-form key-value pairs as a JSON text column
type metadata map[string]string

// Value implements driver.Valuer
func (m metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *metadata) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal metadata: %w", err)
	}
	return nil
}

// toDomainNotification converts a database row to the domain type
func toDomainNotification(row *notificationRow) *domain.Notification {
	return &domain.Notification{
		ID:        row.ID,
		UserID:    row.UserID,
		Category:  domain.Category(row.Category),
		Priority:  domain.Priority(row.Priority),
		Title:     row.Title,
		Message:   row.Message,
		Read:      row.Read,
		Metadata:  row.Metadata,
		CreatedAt: row.CreatedAt,
	}
}

// toDomainEvent converts a database row to the domain type
func toDomainEvent(row *engagementRow) *domain.EngagementEvent {
	return &domain.EngagementEvent{
		ID:             row.ID,
		NotificationID: row.NotificationID,
		UserID:         row.UserID,
		Kind:           domain.EventKind(row.Kind),
		OccurredAt:     row.OccurredAt,
		Latency:        time.Duration(row.LatencyMs) * time.Millisecond,
		CreatedAt:      row.CreatedAt,
	}
}
