package repository

import (
	"context"

	"github.com/mmc102/partner-finder/internal/models"
)

// Users stores registered users
type Users interface {
	// Create inserts a user and sets its ID. Returns a conflict error if the email is taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// ListExcluding returns all users whose ID is not in ids, ordered by ID.
	ListExcluding(ctx context.Context, ids []int64) ([]*models.User, error)
}

// Follows stores directed follow edges
type Follows interface {
	Exists(ctx context.Context, userID, friendID int64) (bool, error)
	// Create inserts an edge. Returns a conflict error if the edge already exists.
	Create(ctx context.Context, assoc *models.UserAssociation) error
	// ListFollowing returns the users userID follows, oldest edge first.
	ListFollowing(ctx context.Context, userID int64) ([]*models.User, error)
	// ListFollowers returns the users following userID, oldest edge first.
	ListFollowers(ctx context.Context, userID int64) ([]*models.User, error)
	FollowingIDs(ctx context.Context, userID int64) ([]int64, error)
}

// Areas stores the location tree
type Areas interface {
	Create(ctx context.Context, area *models.Area) error
	GetByID(ctx context.Context, id string) (*models.Area, error)
	ListRoots(ctx context.Context) ([]*models.Area, error)
	ListChildren(ctx context.Context, parentID string) ([]*models.Area, error)
	// Ancestry returns the chain from the root down to the area itself.
	Ancestry(ctx context.Context, id string) ([]*models.Area, error)
}

// Climbs stores routes
type Climbs interface {
	Create(ctx context.Context, climb *models.Climb) error
	GetByID(ctx context.Context, id string) (*models.Climb, error)
	List(ctx context.Context) ([]*models.Climb, error)
	ListByArea(ctx context.Context, areaID string) ([]*models.Climb, error)
	// ListByInterest returns the climbs userID is projecting, ordered by name.
	ListByInterest(ctx context.Context, userID int64) ([]*models.Climb, error)
}

// Interests stores active user interests in climbs
type Interests interface {
	// Create inserts the interest unless one exists for the pair. Reports whether a row was added.
	Create(ctx context.Context, interest *models.UserInterest) (bool, error)
	Get(ctx context.Context, userID int64, climbID string) (*models.UserInterest, error)
	// Delete removes the interest. Reports whether a row was removed.
	Delete(ctx context.Context, userID int64, climbID string) (bool, error)
	ClimbIDs(ctx context.Context, userID int64) ([]string, error)
	// UsersInterestedIn returns users interested in the climb. A nil among means all users;
	// otherwise only users whose ID is in among.
	UsersInterestedIn(ctx context.Context, climbID string, among []int64) ([]*models.User, error)
}

// FeedItems stores the activity log
type FeedItems interface {
	Create(ctx context.Context, item *models.FeedItem) error
	// ListByUsers returns items owned by any of userIDs, newest first. limit <= 0 means no limit.
	ListByUsers(ctx context.Context, userIDs []int64, limit int) ([]*models.FeedItem, error)
}

// Notifications stores per-recipient notifications
type Notifications interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, id int64) error
}

// Set groups the repositories bound to one connection or transaction
type Set struct {
	Users         Users
	Follows       Follows
	Areas         Areas
	Climbs        Climbs
	Interests     Interests
	FeedItems     FeedItems
	Notifications Notifications
}

// TxFunc is a function that executes within a transaction
type TxFunc func(ctx context.Context, repos *Set) error

// Store hands out repositories and runs units of work
type Store interface {
	// Repos returns repositories that run each call on its own.
	Repos() *Set
	// WithTx runs fn in a transaction. It commits when fn returns nil and
	// rolls back on error or panic.
	WithTx(ctx context.Context, fn TxFunc) error
	Close()
}
