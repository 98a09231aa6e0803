package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/testutil"
)

func userIDs(users []*models.User) []int64 {
	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func equalIDs(got, want []int64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestSocialService_Follow(t *testing.T) {
	ctx := context.Background()

	t.Run("creates edge notification and feed item", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		clock := testutil.FixedClock()
		svc := NewSocialService(store, clock)
		alice := testutil.CreateUser(t, store, "Alice")
		bob := testutil.CreateUser(t, store, "Bob")

		result, err := svc.Follow(ctx, alice.ID, bob.ID)
		if err != nil {
			t.Fatalf("Follow() error = %v", err)
		}

		if result.Association.UserID != alice.ID || result.Association.FriendID != bob.ID {
			t.Errorf("Association = %+v, want alice -> bob", result.Association)
		}
		if !result.Association.FollowedAt.Equal(clock.Now()) {
			t.Errorf("FollowedAt = %v, want %v", result.Association.FollowedAt, clock.Now())
		}

		n := result.Notification
		if n.UserID != bob.ID || n.SourceUserID != alice.ID {
			t.Errorf("Notification owner/source = %d/%d, want %d/%d", n.UserID, n.SourceUserID, bob.ID, alice.ID)
		}
		if n.NotificationType != models.NotificationTypeFollow {
			t.Errorf("NotificationType = %q, want %q", n.NotificationType, models.NotificationTypeFollow)
		}
		if n.Message != "Alice started following you." {
			t.Errorf("Message = %q", n.Message)
		}
		if n.Read {
			t.Error("new notification is read")
		}

		item := result.FeedItem
		if item.UserID != alice.ID || item.Action != models.ActionFollowed || item.Details != "followed Bob" {
			t.Errorf("FeedItem = %+v", item)
		}

		following, err := svc.ListFollowing(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListFollowing() error = %v", err)
		}
		if !equalIDs(userIDs(following), []int64{bob.ID}) {
			t.Errorf("ListFollowing(alice) = %v, want [bob]", userIDs(following))
		}

		followers, err := svc.ListFollowers(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListFollowers() error = %v", err)
		}
		if !equalIDs(userIDs(followers), []int64{alice.ID}) {
			t.Errorf("ListFollowers(bob) = %v, want [alice]", userIDs(followers))
		}

		notifications, err := store.Repos().Notifications.ListByUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListByUser() error = %v", err)
		}
		if len(notifications) != 1 {
			t.Errorf("bob has %d notifications, want 1", len(notifications))
		}

		feed, err := store.Repos().FeedItems.ListByUsers(ctx, []int64{alice.ID}, 0)
		if err != nil {
			t.Fatalf("ListByUsers() error = %v", err)
		}
		if len(feed) != 1 {
			t.Errorf("alice has %d feed items, want 1", len(feed))
		}
	})

	t.Run("self follow is invalid", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		svc := NewSocialService(store, testutil.FixedClock())
		alice := testutil.CreateUser(t, store, "Alice")

		_, err := svc.Follow(ctx, alice.ID, alice.ID)
		if !errors.Is(err, apperrors.ErrInvalidOperation) {
			t.Fatalf("Follow(self) error = %v, want invalid operation", err)
		}

		feed, _ := store.Repos().FeedItems.ListByUsers(ctx, []int64{alice.ID}, 0)
		if len(feed) != 0 {
			t.Errorf("failed follow wrote %d feed items", len(feed))
		}
	})

	t.Run("second follow conflicts and writes nothing", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		svc := NewSocialService(store, testutil.FixedClock())
		alice := testutil.CreateUser(t, store, "Alice")
		bob := testutil.CreateUser(t, store, "Bob")

		if _, err := svc.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("first Follow() error = %v", err)
		}
		_, err := svc.Follow(ctx, alice.ID, bob.ID)
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Fatalf("second Follow() error = %v, want conflict", err)
		}

		count, _ := store.Repos().Notifications.CountUnread(ctx, bob.ID)
		if count != 1 {
			t.Errorf("bob unread = %d, want 1", count)
		}
	})

	t.Run("unknown target is not found", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		svc := NewSocialService(store, testutil.FixedClock())
		alice := testutil.CreateUser(t, store, "Alice")

		_, err := svc.Follow(ctx, alice.ID, 999)
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("Follow(999) error = %v, want not found", err)
		}
	})

	t.Run("follow is directed", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		svc := NewSocialService(store, testutil.FixedClock())
		alice := testutil.CreateUser(t, store, "Alice")
		bob := testutil.CreateUser(t, store, "Bob")

		if _, err := svc.Follow(ctx, alice.ID, bob.ID); err != nil {
			t.Fatalf("Follow() error = %v", err)
		}
		if _, err := svc.Follow(ctx, bob.ID, alice.ID); err != nil {
			t.Errorf("reverse Follow() error = %v", err)
		}
	})
}

func TestSocialService_ListOrdering(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewTestStore(t)
	clock := testutil.FixedClock()
	svc := NewSocialService(store, clock)

	alice := testutil.CreateUser(t, store, "Alice")
	bob := testutil.CreateUser(t, store, "Bob")
	carol := testutil.CreateUser(t, store, "Carol")
	diana := testutil.CreateUser(t, store, "Diana")

	for _, target := range []int64{diana.ID, bob.ID} {
		if _, err := svc.Follow(ctx, alice.ID, target); err != nil {
			t.Fatalf("Follow() error = %v", err)
		}
		clock.Advance(time.Minute)
	}

	following, err := svc.ListFollowing(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListFollowing() error = %v", err)
	}
	if !equalIDs(userIDs(following), []int64{diana.ID, bob.ID}) {
		t.Errorf("ListFollowing() = %v, want follow order [diana bob]", userIDs(following))
	}

	others, err := svc.ListNonConnections(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListNonConnections() error = %v", err)
	}
	if !equalIDs(userIDs(others), []int64{carol.ID}) {
		t.Errorf("ListNonConnections() = %v, want [carol]", userIDs(others))
	}

	others, err = svc.ListNonConnections(ctx, carol.ID)
	if err != nil {
		t.Fatalf("ListNonConnections(carol) error = %v", err)
	}
	if !equalIDs(userIDs(others), []int64{alice.ID, bob.ID, diana.ID}) {
		t.Errorf("ListNonConnections(carol) = %v, want everyone else by id", userIDs(others))
	}
}

func TestConcurrentDuplicates(t *testing.T) {
	ctx := context.Background()
	const workers = 50

	store := testutil.NewTestStore(t)
	clock := testutil.FixedClock()
	social := NewSocialService(store, clock)
	interests := NewInterestService(store, clock)
	feed := NewFeedService(store)

	alice := testutil.CreateUser(t, store, "Alice")
	bob := testutil.CreateUser(t, store, "Bob")
	testutil.CreateArea(t, store, "crag", "Crag", "")
	testutil.CreateClimb(t, store, "c1", "Crimpfest", "crag")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		followed  int
		conflicts int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := social.Follow(ctx, alice.ID, bob.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				followed++
			case errors.Is(err, apperrors.ErrConflict):
				conflicts++
			default:
				failures = append(failures, err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := interests.AddInterest(ctx, alice.ID, "c1"); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("unexpected errors: %v", failures)
	}
	if followed != 1 || conflicts != workers-1 {
		t.Errorf("Follow() successes = %d, conflicts = %d, want 1 and %d", followed, conflicts, workers-1)
	}

	unread, err := feed.UnreadCount(ctx, bob.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if unread != 1 {
		t.Errorf("UnreadCount(bob) = %d, want 1", unread)
	}

	climbIDs, err := store.Repos().Interests.ClimbIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ClimbIDs() error = %v", err)
	}
	if len(climbIDs) != 1 {
		t.Errorf("ClimbIDs(alice) = %v, want one interest", climbIDs)
	}

	items, err := feed.GetFeed(ctx, alice.ID, 0)
	if err != nil {
		t.Fatalf("GetFeed() error = %v", err)
	}
	if len(items) != 2 {
		t.Errorf("GetFeed(alice) returned %d items, want one follow and one interest", len(items))
	}
}
