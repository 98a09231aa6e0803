package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// InterestService tracks which climbs users are projecting
type InterestService struct {
	store repository.Store
	clock Clock
}

// NewInterestService creates a new interest service
func NewInterestService(store repository.Store, clock Clock) *InterestService {
	return &InterestService{
		store: store,
		clock: clock,
	}
}

// AddInterest marks climbID as a project of userID. Adding an interest
// that already exists returns the existing row and records nothing.
func (s *InterestService) AddInterest(ctx context.Context, userID int64, climbID string) (*models.UserInterest, error) {
	var interest *models.UserInterest

	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		climb, err := r.Climbs.GetByID(ctx, climbID)
		if err != nil {
			return err
		}

		interest = &models.UserInterest{UserID: userID, ClimbID: climb.ID}
		created, err := r.Interests.Create(ctx, interest)
		if err != nil {
			return err
		}
		if !created {
			interest, err = r.Interests.Get(ctx, userID, climb.ID)
			return err
		}

		return r.FeedItems.Create(ctx, &models.FeedItem{
			UserID:    userID,
			Action:    models.ActionNewInterestClimb,
			Details:   fmt.Sprintf("Started Projecting %s", climb.Name),
			Timestamp: s.clock.Now(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add interest: %w", err)
	}

	return interest, nil
}

// RemoveInterest drops the interest of userID in climbID. When completed
// is true and the interest existed, a send is recorded in the feed.
func (s *InterestService) RemoveInterest(ctx context.Context, userID int64, climbID string, completed bool) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		removed, err := r.Interests.Delete(ctx, userID, climbID)
		if err != nil {
			return err
		}
		if !removed || !completed {
			return nil
		}

		climb, err := r.Climbs.GetByID(ctx, climbID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil
			}
			return err
		}

		return r.FeedItems.Create(ctx, &models.FeedItem{
			UserID:    userID,
			Action:    models.ActionCompletedClimb,
			Details:   fmt.Sprintf("Sent %s", climb.Name),
			Timestamp: s.clock.Now(),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to remove interest: %w", err)
	}

	return nil
}

// ClimbsOfInterest returns the climbs userID is projecting
func (s *InterestService) ClimbsOfInterest(ctx context.Context, userID int64) ([]*models.Climb, error) {
	return s.store.Repos().Climbs.ListByInterest(ctx, userID)
}
