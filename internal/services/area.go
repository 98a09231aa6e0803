package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// CatalogService manages the area tree and the climbs in it
type CatalogService struct {
	store repository.Store
	ids   IDGenerator
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store repository.Store, ids IDGenerator) *CatalogService {
	return &CatalogService{
		store: store,
		ids:   ids,
	}
}

// AreaDetails is an area with its place in the tree. Climbs are only
// listed for leaf areas.
type AreaDetails struct {
	Area       *models.Area    `json:"area"`
	Children   []*models.Area  `json:"children"`
	Breadcrumb []*models.Area  `json:"breadcrumb"`
	Climbs     []*models.Climb `json:"climbs"`
}

// ClimbListing is a climb flagged with whether the viewer projects it
type ClimbListing struct {
	Climb      *models.Climb `json:"climb"`
	Interested bool          `json:"interested"`
}

// ClimbDetails is a climb with everyone projecting it
type ClimbDetails struct {
	Climb           *models.Climb  `json:"climb"`
	InterestedUsers []*models.User `json:"interested_users"`
	Breadcrumb      []*models.Area `json:"breadcrumb"`
}

// NewArea is the input for adding an area
type NewArea struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// NewClimb is the input for adding a climb
type NewClimb struct {
	Name        string   `json:"name"`
	GradeYDS    *string  `json:"grade_yds,omitempty"`
	GradeFont   *string  `json:"grade_font,omitempty"`
	Description *string  `json:"description,omitempty"`
	Location    *string  `json:"location,omitempty"`
	Protection  *string  `json:"protection,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// ListRootAreas returns the top level of the tree
func (s *CatalogService) ListRootAreas(ctx context.Context) ([]*models.Area, error) {
	return s.store.Repos().Areas.ListRoots(ctx)
}

// GetArea returns an area with its children, breadcrumb and, for leaves, climbs
func (s *CatalogService) GetArea(ctx context.Context, areaID string) (*AreaDetails, error) {
	repos := s.store.Repos()

	breadcrumb, err := repos.Areas.Ancestry(ctx, areaID)
	if err != nil {
		return nil, err
	}
	area := breadcrumb[len(breadcrumb)-1]

	children, err := repos.Areas.ListChildren(ctx, areaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get child areas: %w", err)
	}

	climbs := []*models.Climb{}
	if len(children) == 0 {
		climbs, err = repos.Climbs.ListByArea(ctx, areaID)
		if err != nil {
			return nil, fmt.Errorf("failed to get climbs: %w", err)
		}
	}

	return &AreaDetails{
		Area:       area,
		Children:   children,
		Breadcrumb: breadcrumb,
		Climbs:     climbs,
	}, nil
}

// CreateRootArea adds an area at the top of the tree
func (s *CatalogService) CreateRootArea(ctx context.Context, input NewArea) (*models.Area, error) {
	return s.createArea(ctx, nil, input)
}

// AddArea adds a child area below parentID
func (s *CatalogService) AddArea(ctx context.Context, parentID string, input NewArea) (*models.Area, error) {
	return s.createArea(ctx, &parentID, input)
}

func (s *CatalogService) createArea(ctx context.Context, parentID *string, input NewArea) (*models.Area, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("area name is required")
	}

	area := &models.Area{
		ID:        s.ids.New(),
		Name:      name,
		ParentID:  parentID,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		if parentID != nil {
			if _, err := r.Areas.GetByID(ctx, *parentID); err != nil {
				return err
			}
		}
		return r.Areas.Create(ctx, area)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add area: %w", err)
	}

	return area, nil
}

// AddClimb adds a climb to areaID
func (s *CatalogService) AddClimb(ctx context.Context, areaID string, input NewClimb) (*models.Climb, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("climb name is required")
	}

	climb := &models.Climb{
		ID:          s.ids.New(),
		Name:        name,
		GradeYDS:    input.GradeYDS,
		GradeFont:   input.GradeFont,
		Description: input.Description,
		Location:    input.Location,
		Protection:  input.Protection,
		AreaID:      areaID,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		if _, err := r.Areas.GetByID(ctx, areaID); err != nil {
			return err
		}
		return r.Climbs.Create(ctx, climb)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add climb: %w", err)
	}

	return climb, nil
}

// ListClimbs returns every climb, flagged with the interest of userID
func (s *CatalogService) ListClimbs(ctx context.Context, userID int64) ([]ClimbListing, error) {
	repos := s.store.Repos()

	climbs, err := repos.Climbs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list climbs: %w", err)
	}

	ids, err := repos.Interests.ClimbIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get interests: %w", err)
	}
	interested := make(map[string]bool, len(ids))
	for _, id := range ids {
		interested[id] = true
	}

	listings := make([]ClimbListing, 0, len(climbs))
	for _, climb := range climbs {
		listings = append(listings, ClimbListing{Climb: climb, Interested: interested[climb.ID]})
	}
	return listings, nil
}

// GetClimb returns a climb with its breadcrumb and everyone projecting it
func (s *CatalogService) GetClimb(ctx context.Context, climbID string) (*ClimbDetails, error) {
	repos := s.store.Repos()

	climb, err := repos.Climbs.GetByID(ctx, climbID)
	if err != nil {
		return nil, err
	}

	users, err := repos.Interests.UsersInterestedIn(ctx, climbID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get interested users: %w", err)
	}

	breadcrumb, err := repos.Areas.Ancestry(ctx, climb.AreaID)
	if err != nil {
		return nil, fmt.Errorf("failed to get breadcrumb: %w", err)
	}

	return &ClimbDetails{
		Climb:           climb,
		InterestedUsers: users,
		Breadcrumb:      breadcrumb,
	}, nil
}
