package repository

import (
	"context"
	"fmt"

	"github.com/mmc102/partner-finder/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// FeedRepository handles database operations for feed items
type FeedRepository struct {
	db DBTX
}

// NewFeedRepository creates a new feed repository
func NewFeedRepository(db DBTX) *FeedRepository {
	return &FeedRepository{db: db}
}

// Create creates a new feed item
func (r *FeedRepository) Create(ctx context.Context, item *models.FeedItem) error {
	query := `
		INSERT INTO feed_items (user_id, action, details, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, item.UserID, item.Action, item.Details, item.Timestamp).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create feed item: %w", err)
	}
	return nil
}

// ListByUsers retrieves the feed items owned by any of the users, newest first
func (r *FeedRepository) ListByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.FeedItem, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := psql.Select("f.id", "f.user_id", "u.name", "f.action", "f.details", "f.timestamp").
		From("feed_items f").
		Join("users u ON u.id = f.user_id").
		Where(squirrel.Eq{"f.user_id": userIDs}).
		OrderBy("f.timestamp DESC", "f.id DESC")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed items: %w", err)
	}
	items, err := collect(rows, func(row pgx.Row) (*models.FeedItem, error) {
		var item models.FeedItem
		err := row.Scan(&item.ID, &item.UserID, &item.UserName, &item.Action, &item.Details, &item.Timestamp)
		if err != nil {
			return nil, err
		}
		return &item, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan feed item: %w", err)
	}
	return items, nil
}
