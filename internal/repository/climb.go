package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"

	"github.com/jackc/pgx/v5"
)

const climbColumns = `c.id, c.name, c.grade_yds, c.grade_font, c.description, c.location,
	c.protection, c.area_id, c.latitude, c.longitude`

// ClimbRepository handles database operations for climbs
type ClimbRepository struct {
	db DBTX
}

// NewClimbRepository creates a new climb repository
func NewClimbRepository(db DBTX) *ClimbRepository {
	return &ClimbRepository{db: db}
}

func scanClimb(row pgx.Row) (*models.Climb, error) {
	var climb models.Climb
	err := row.Scan(
		&climb.ID, &climb.Name, &climb.GradeYDS, &climb.GradeFont, &climb.Description,
		&climb.Location, &climb.Protection, &climb.AreaID, &climb.Latitude, &climb.Longitude,
	)
	if err != nil {
		return nil, err
	}
	return &climb, nil
}

// Create creates a new climb
func (r *ClimbRepository) Create(ctx context.Context, climb *models.Climb) error {
	query := `
		INSERT INTO climbs (id, name, grade_yds, grade_font, description, location,
			protection, area_id, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.db.Exec(ctx, query,
		climb.ID, climb.Name, climb.GradeYDS, climb.GradeFont, climb.Description,
		climb.Location, climb.Protection, climb.AreaID, climb.Latitude, climb.Longitude,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("climb already exists")
		}
		return fmt.Errorf("failed to create climb: %w", err)
	}
	return nil
}

// GetByID retrieves a climb by ID
func (r *ClimbRepository) GetByID(ctx context.Context, id string) (*models.Climb, error) {
	query := `SELECT ` + climbColumns + ` FROM climbs c WHERE c.id = $1`
	climb, err := scanClimb(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("climb not found")
		}
		return nil, fmt.Errorf("failed to get climb: %w", err)
	}
	return climb, nil
}

// List retrieves all climbs
func (r *ClimbRepository) List(ctx context.Context) ([]*models.Climb, error) {
	query := `SELECT ` + climbColumns + ` FROM climbs c ORDER BY c.name, c.id`
	return r.list(ctx, query)
}

// ListByArea retrieves the climbs of an area
func (r *ClimbRepository) ListByArea(ctx context.Context, areaID string) ([]*models.Climb, error) {
	query := `SELECT ` + climbColumns + ` FROM climbs c WHERE c.area_id = $1 ORDER BY c.name, c.id`
	return r.list(ctx, query, areaID)
}

// ListByInterest retrieves the climbs a user is projecting
func (r *ClimbRepository) ListByInterest(ctx context.Context, userID int64) ([]*models.Climb, error) {
	query := `
		SELECT ` + climbColumns + `
		FROM climbs c
		JOIN user_interests ui ON ui.climb_id = c.id
		WHERE ui.user_id = $1
		ORDER BY c.name, c.id
	`
	return r.list(ctx, query, userID)
}

func (r *ClimbRepository) list(ctx context.Context, query string, args ...any) ([]*models.Climb, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list climbs: %w", err)
	}
	climbs, err := collect(rows, scanClimb)
	if err != nil {
		return nil, fmt.Errorf("failed to scan climb: %w", err)
	}
	return climbs, nil
}
