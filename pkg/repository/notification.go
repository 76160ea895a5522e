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

// NotificationRepository handles notification-related database operations
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a new notification and sets its ID and creation time
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	row := &notificationRow{
		UserID:    n.UserID,
		Category:  string(n.Category),
		Priority:  string(n.Priority),
		Title:     n.Title,
		Message:   n.Message,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}

	query := `
		INSERT INTO notifications (user_id, category, priority, title, message, read, metadata, created_at)
		VALUES (:user_id, :category, :priority, :title, :message, 0, :metadata, :created_at)
	`

	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		result, err := r.db.NamedExecContext(ctx, query, row)
		if err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: fmt.Errorf("create notification: %w", err)}
		}

		id, err := result.LastInsertId()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get insert id: %w", err)}
		}
		n.ID = id
		return nil
	})
}

// Get retrieves a notification by ID scoped to its owner.
// Returns domain.ErrNotFound when the row does not exist or belongs to
// another user; ownership violations are indistinguishable from absence.
func (r *NotificationRepository) Get(ctx context.Context, id int64, userID string) (*domain.Notification, error) {
	var row notificationRow
	err := r.db.GetContext(ctx, &row,
		"SELECT * FROM notifications WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return toDomainNotification(&row), nil
}

// List retrieves notifications for a user, newest first, capped at limit
func (r *NotificationRepository) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	notifications := make([]domain.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = *toDomainNotification(&row)
	}
	return notifications, nil
}

// ListUnread retrieves unread notifications for a user, newest first
func (r *NotificationRepository) ListUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	query := `
		SELECT * FROM notifications
		WHERE user_id = ? AND read = 0
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	var rows []notificationRow
	if err := r.db.SelectContext(ctx, &rows, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}

	notifications := make([]domain.Notification, len(rows))
	for i, row := range rows {
		notifications[i] = *toDomainNotification(&row)
	}
	return notifications, nil
}

// MarkRead flips the read flag for a single notification. Marking an
// already-read notification is a no-op, not an error. Returns
// domain.ErrNotFound when the notification does not exist for the user.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, userID string) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	return retrier.Do(ctx, func() error {
		var exists bool
		err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ? AND user_id = ?)", id, userID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("check notification exists: %w", err)}
		}
		if !exists {
			return &criticalError{err: fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)}
		}

		// read flag is monotonic, the filter keeps already-read rows untouched
		_, err = r.db.ExecContext(ctx,
			"UPDATE notifications SET read = 1 WHERE id = ? AND user_id = ? AND read = 0", id, userID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("mark notification read: %w", err)}
		}
		return nil
	})
}

// MarkAllRead flips the read flag for all unread notifications of a user
// in a single statement, returns the number of rows updated
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var updated int64
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		result, err := r.db.ExecContext(ctx,
			"UPDATE notifications SET read = 1 WHERE user_id = ? AND read = 0", userID)
		if err != nil {
			if isLockError(err) {
				return err
			}
			return &criticalError{err: fmt.Errorf("mark all read: %w", err)}
		}
		updated, err = result.RowsAffected()
		if err != nil {
			return &criticalError{err: fmt.Errorf("get rows affected: %w", err)}
		}
		return nil
	})
	return updated, err
}

// CountUnread returns the number of unread notifications for a user
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM notifications WHERE user_id = ? AND read = 0", userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// LatestByCategory returns the newest notification of a category for a
// user, or domain.ErrNotFound when none exists
func (r *NotificationRepository) LatestByCategory(ctx context.Context, userID string, category domain.Category) (*domain.Notification, error) {
	var row notificationRow
	query := `
		SELECT * FROM notifications
		WHERE user_id = ? AND category = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	err := r.db.GetContext(ctx, &row, query, userID, string(category))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s notification for user %s: %w", category, userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get latest by category: %w", err)
	}
	return toDomainNotification(&row), nil
}

// ActiveUsers returns user IDs with notifications created since the cutoff,
// used by the digest worker to pick users worth an insight
func (r *NotificationRepository) ActiveUsers(ctx context.Context, since time.Time) ([]string, error) {
	var users []string
	err := r.db.SelectContext(ctx, &users,
		"SELECT DISTINCT user_id FROM notifications WHERE created_at >= ? ORDER BY user_id", since)
	if err != nil {
		return nil, fmt.Errorf("list active users: %w", err)
	}
	return users, nil
}
