package repository

import (
	"context"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
)

// AssociationRepository handles database operations for follow edges
type AssociationRepository struct {
	db DBTX
}

// NewAssociationRepository creates a new association repository
func NewAssociationRepository(db DBTX) *AssociationRepository {
	return &AssociationRepository{db: db}
}

// Exists checks if userID already follows friendID
func (r *AssociationRepository) Exists(ctx context.Context, userID, friendID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM user_associations WHERE user_id = $1 AND friend_id = $2)`
	var exists bool
	err := r.db.QueryRow(ctx, query, userID, friendID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow existence: %w", err)
	}
	return exists, nil
}

// Create creates a new follow edge
func (r *AssociationRepository) Create(ctx context.Context, assoc *models.UserAssociation) error {
	query := `
		INSERT INTO user_associations (user_id, friend_id, followed_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, assoc.UserID, assoc.FriendID, assoc.FollowedAt).Scan(&assoc.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("you are already following this user")
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

// ListFollowing retrieves the users that userID follows
func (r *AssociationRepository) ListFollowing(ctx context.Context, userID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash
		FROM user_associations ua
		JOIN users u ON u.id = ua.friend_id
		WHERE ua.user_id = $1
		ORDER BY ua.followed_at, ua.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan following: %w", err)
	}
	return users, nil
}

// ListFollowers retrieves the users following userID
func (r *AssociationRepository) ListFollowers(ctx context.Context, userID int64) ([]*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.password_hash
		FROM user_associations ua
		JOIN users u ON u.id = ua.user_id
		WHERE ua.friend_id = $1
		ORDER BY ua.followed_at, ua.id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list followers: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan followers: %w", err)
	}
	return users, nil
}

// FollowingIDs retrieves the IDs of the users that userID follows
func (r *AssociationRepository) FollowingIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM user_associations WHERE user_id = $1 ORDER BY followed_at, id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan following id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating following ids: %w", err)
	}
	return ids, nil
}
