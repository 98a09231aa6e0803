package services

import (
	"context"
	"fmt"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// DashboardFeedLimit is the number of feed items shown on the dashboard
const DashboardFeedLimit = 5

// FeedService builds feeds and manages notifications
type FeedService struct {
	store repository.Store
}

// NewFeedService creates a new feed service
func NewFeedService(store repository.Store) *FeedService {
	return &FeedService{store: store}
}

// SharedInterest is a climb the user is projecting together with the followees projecting it too
type SharedInterest struct {
	Climb *models.Climb  `json:"climb"`
	Users []*models.User `json:"users"`
}

// Dashboard is everything the home page of a user shows
type Dashboard struct {
	User             *models.User       `json:"user"`
	Feed             []*models.FeedItem `json:"feed"`
	Following        []*models.User     `json:"following"`
	Followers        []*models.User     `json:"followers"`
	ClimbsOfInterest []*models.Climb    `json:"climbs_of_interest"`
	SharedInterests  []SharedInterest   `json:"shared_interests"`
	UnreadCount      int                `json:"unread_count"`
}

// GetFeed returns the newest activity of userID and everyone they follow.
// limit <= 0 returns the whole feed.
func (s *FeedService) GetFeed(ctx context.Context, userID int64, limit int) ([]*models.FeedItem, error) {
	repos := s.store.Repos()

	followingIDs, err := repos.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}

	items, err := repos.FeedItems.ListByUsers(ctx, append([]int64{userID}, followingIDs...), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get feed: %w", err)
	}
	return items, nil
}

// GetNotifications returns the notifications of userID, newest first
func (s *FeedService) GetNotifications(ctx context.Context, userID int64) ([]*models.Notification, error) {
	return s.store.Repos().Notifications.ListByUser(ctx, userID)
}

// UnreadCount returns how many notifications of userID are unread
func (s *FeedService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.store.Repos().Notifications.CountUnread(ctx, userID)
}

// MarkRead marks one notification of userID as read
func (s *FeedService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		notification, err := r.Notifications.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}

		if notification.UserID != userID {
			return apperrors.Forbidden("notification belongs to another user")
		}

		if notification.Read {
			return nil
		}
		return r.Notifications.MarkRead(ctx, notificationID)
	})
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	return nil
}

// SharedInterests lists, per climb userID is projecting, the followees projecting it as well
func (s *FeedService) SharedInterests(ctx context.Context, userID int64) ([]SharedInterest, error) {
	repos := s.store.Repos()

	climbs, err := repos.Climbs.ListByInterest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get climbs of interest: %w", err)
	}

	followingIDs, err := repos.Follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following ids: %w", err)
	}

	shared := make([]SharedInterest, 0, len(climbs))
	for _, climb := range climbs {
		users := []*models.User{}
		if len(followingIDs) > 0 {
			users, err = repos.Interests.UsersInterestedIn(ctx, climb.ID, followingIDs)
			if err != nil {
				return nil, fmt.Errorf("failed to get users interested in %s: %w", climb.ID, err)
			}
		}
		shared = append(shared, SharedInterest{Climb: climb, Users: users})
	}

	return shared, nil
}

// Dashboard assembles the home page of userID
func (s *FeedService) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	repos := s.store.Repos()

	user, err := repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	feed, err := s.GetFeed(ctx, userID, DashboardFeedLimit)
	if err != nil {
		return nil, err
	}

	following, err := repos.Follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}

	followers, err := repos.Follows.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}

	climbs, err := repos.Climbs.ListByInterest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get climbs of interest: %w", err)
	}

	shared, err := s.SharedInterests(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := repos.Notifications.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &Dashboard{
		User:             user,
		Feed:             feed,
		Following:        following,
		Followers:        followers,
		ClimbsOfInterest: climbs,
		SharedInterests:  shared,
		UnreadCount:      unread,
	}, nil
}
