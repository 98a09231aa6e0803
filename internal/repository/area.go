package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"

	"github.com/jackc/pgx/v5"
)

// AreaRepository handles database operations for areas
type AreaRepository struct {
	db DBTX
}

// NewAreaRepository creates a new area repository
func NewAreaRepository(db DBTX) *AreaRepository {
	return &AreaRepository{db: db}
}

func scanArea(row pgx.Row) (*models.Area, error) {
	var area models.Area
	if err := row.Scan(&area.ID, &area.Name, &area.ParentID, &area.Latitude, &area.Longitude); err != nil {
		return nil, err
	}
	return &area, nil
}

// Create creates a new area
func (r *AreaRepository) Create(ctx context.Context, area *models.Area) error {
	query := `
		INSERT INTO areas (id, name, parent_id, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, area.ID, area.Name, area.ParentID, area.Latitude, area.Longitude)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("area already exists")
		}
		return fmt.Errorf("failed to create area: %w", err)
	}
	return nil
}

// GetByID retrieves an area by ID
func (r *AreaRepository) GetByID(ctx context.Context, id string) (*models.Area, error) {
	query := `
		SELECT id, name, parent_id, latitude, longitude
		FROM areas
		WHERE id = $1
	`
	area, err := scanArea(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("area not found")
		}
		return nil, fmt.Errorf("failed to get area: %w", err)
	}
	return area, nil
}

// ListRoots retrieves the areas without a parent
func (r *AreaRepository) ListRoots(ctx context.Context) ([]*models.Area, error) {
	query := `
		SELECT id, name, parent_id, latitude, longitude
		FROM areas
		WHERE parent_id IS NULL
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list root areas: %w", err)
	}
	areas, err := collect(rows, scanArea)
	if err != nil {
		return nil, fmt.Errorf("failed to scan area: %w", err)
	}
	return areas, nil
}

// ListChildren retrieves the direct children of an area
func (r *AreaRepository) ListChildren(ctx context.Context, parentID string) ([]*models.Area, error) {
	query := `
		SELECT id, name, parent_id, latitude, longitude
		FROM areas
		WHERE parent_id = $1
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child areas: %w", err)
	}
	areas, err := collect(rows, scanArea)
	if err != nil {
		return nil, fmt.Errorf("failed to scan area: %w", err)
	}
	return areas, nil
}

// Ancestry retrieves the parent chain of an area in one round trip, root first
func (r *AreaRepository) Ancestry(ctx context.Context, id string) ([]*models.Area, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT id, name, parent_id, latitude, longitude, 0 AS depth
			FROM areas
			WHERE id = $1
			UNION ALL
			SELECT a.id, a.name, a.parent_id, a.latitude, a.longitude, c.depth + 1
			FROM areas a
			JOIN chain c ON a.id = c.parent_id
		)
		SELECT id, name, parent_id, latitude, longitude
		FROM chain
		ORDER BY depth DESC
	`
	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get area ancestry: %w", err)
	}
	areas, err := collect(rows, scanArea)
	if err != nil {
		return nil, fmt.Errorf("failed to scan area: %w", err)
	}
	if len(areas) == 0 {
		return nil, apperrors.NotFound("area not found")
	}
	return areas, nil
}
