package services

import (
	"context"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// SocialService handles the follow graph
type SocialService struct {
	store repository.Store
	clock Clock
}

// NewSocialService creates a new social service
func NewSocialService(store repository.Store, clock Clock) *SocialService {
	return &SocialService{
		store: store,
		clock: clock,
	}
}

// FollowResult holds every record written by a follow
type FollowResult struct {
	Association  *models.UserAssociation `json:"association"`
	FeedItem     *models.FeedItem        `json:"feed_item"`
	Notification *models.Notification    `json:"notification"`
}

// Follow makes actorID follow targetID
func (s *SocialService) Follow(ctx context.Context, actorID, targetID int64) (*FollowResult, error) {
	var result *FollowResult

	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		// Check that the target exists
		target, err := r.Users.GetByID(ctx, targetID)
		if err != nil {
			return err
		}

		if actorID == targetID {
			return apperrors.InvalidOperation("you cannot follow yourself")
		}

		exists, err := r.Follows.Exists(ctx, actorID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return apperrors.Conflict("you are already following this user")
		}

		actor, err := r.Users.GetByID(ctx, actorID)
		if err != nil {
			return err
		}

		now := s.clock.Now()

		assoc := &models.UserAssociation{
			UserID:     actorID,
			FriendID:   targetID,
			FollowedAt: now,
		}
		if err := r.Follows.Create(ctx, assoc); err != nil {
			return err
		}

		notification := &models.Notification{
			UserID:           targetID,
			SourceUserID:     actorID,
			Message:          fmt.Sprintf("%s started following you.", actor.Name),
			Timestamp:        now,
			NotificationType: models.NotificationTypeFollow,
		}
		if err := r.Notifications.Create(ctx, notification); err != nil {
			return err
		}
		notification.SourceUserName = actor.Name

		item := &models.FeedItem{
			UserID:    actorID,
			Action:    models.ActionFollowed,
			Details:   fmt.Sprintf("followed %s", target.Name),
			Timestamp: now,
		}
		if err := r.FeedItems.Create(ctx, item); err != nil {
			return err
		}
		item.UserName = actor.Name

		result = &FollowResult{
			Association:  assoc,
			FeedItem:     item,
			Notification: notification,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to follow user: %w", err)
	}

	return result, nil
}

// ListFollowing returns the users userID follows
func (s *SocialService) ListFollowing(ctx context.Context, userID int64) ([]*models.User, error) {
	return s.store.Repos().Follows.ListFollowing(ctx, userID)
}

// ListFollowers returns the users following userID
func (s *SocialService) ListFollowers(ctx context.Context, userID int64) ([]*models.User, error) {
	return s.store.Repos().Follows.ListFollowers(ctx, userID)
}

// ListNonConnections returns every user that userID could still follow
func (s *SocialService) ListNonConnections(ctx context.Context, userID int64) ([]*models.User, error) {
	repos := s.store.Repos()

	followingIDs, err := repos.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}

	exclude := append([]int64{userID}, followingIDs...)
	return repos.Users.ListExcluding(ctx, exclude)
}
