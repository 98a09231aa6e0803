package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// InterestRepository handles database operations for user interests
type InterestRepository struct {
	db DBTX
}

// NewInterestRepository creates a new interest repository
func NewInterestRepository(db DBTX) *InterestRepository {
	return &InterestRepository{db: db}
}

// Create adds an interest unless the user already has one for the climb
func (r *InterestRepository) Create(ctx context.Context, interest *models.UserInterest) (bool, error) {
	query := `
		INSERT INTO user_interests (user_id, climb_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, climb_id) DO NOTHING
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, interest.UserID, interest.ClimbID).Scan(&interest.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create interest: %w", err)
	}
	return true, nil
}

// Get retrieves the interest of a user in a climb
func (r *InterestRepository) Get(ctx context.Context, userID int64, climbID string) (*models.UserInterest, error) {
	query := `SELECT id, user_id, climb_id FROM user_interests WHERE user_id = $1 AND climb_id = $2`
	var interest models.UserInterest
	err := r.db.QueryRow(ctx, query, userID, climbID).Scan(&interest.ID, &interest.UserID, &interest.ClimbID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("interest not found")
		}
		return nil, fmt.Errorf("failed to get interest: %w", err)
	}
	return &interest, nil
}

// Delete removes the interest of a user in a climb
func (r *InterestRepository) Delete(ctx context.Context, userID int64, climbID string) (bool, error) {
	query := `DELETE FROM user_interests WHERE user_id = $1 AND climb_id = $2`
	result, err := r.db.Exec(ctx, query, userID, climbID)
	if err != nil {
		return false, fmt.Errorf("failed to delete interest: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// ClimbIDs retrieves the IDs of the climbs a user is projecting
func (r *InterestRepository) ClimbIDs(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT climb_id FROM user_interests WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list interest climb ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan climb id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating climb ids: %w", err)
	}
	return ids, nil
}

// UsersInterestedIn retrieves the users projecting a climb, optionally restricted to among
func (r *InterestRepository) UsersInterestedIn(ctx context.Context, climbID string, among []int64) ([]*models.User, error) {
	if among != nil && len(among) == 0 {
		return nil, nil
	}

	query := psql.Select("u.id", "u.name", "u.email", "u.password_hash").
		From("users u").
		Join("user_interests ui ON ui.user_id = u.id").
		Where(squirrel.Eq{"ui.climb_id": climbID}).
		OrderBy("u.name", "u.id")
	if among != nil {
		query = query.Where(squirrel.Eq{"u.id": among})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interested users: %w", err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return users, nil
}
