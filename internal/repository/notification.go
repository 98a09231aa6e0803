package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"

	"github.com/jackc/pgx/v5"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db DBTX
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func scanNotification(row pgx.Row) (*models.Notification, error) {
	var n models.Notification
	err := row.Scan(
		&n.ID, &n.UserID, &n.SourceUserID, &n.SourceUserName, &n.Message,
		&n.Read, &n.Timestamp, &n.NotificationType,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, source_user_id, message, read, timestamp, notification_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query,
		n.UserID, n.SourceUserID, n.Message, n.Read, n.Timestamp, n.NotificationType,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.source_user_id, u.name, n.message, n.read, n.timestamp, n.notification_type
		FROM notifications n
		JOIN users u ON u.id = n.source_user_id
		WHERE n.id = $1
	`
	n, err := scanNotification(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("notification not found")
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// ListByUser retrieves the notifications of a recipient, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.source_user_id, u.name, n.message, n.read, n.timestamp, n.notification_type
		FROM notifications n
		JOIN users u ON u.id = n.source_user_id
		WHERE n.user_id = $1
		ORDER BY n.timestamp DESC, n.id DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	notifications, err := collect(rows, scanNotification)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	return notifications, nil
}

// CountUnread counts the unread notifications of a recipient
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`
	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead sets the read flag of a notification
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.NotFound("notification not found")
	}
	return nil
}
