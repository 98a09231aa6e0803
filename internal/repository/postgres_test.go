package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
	"github.com/mmc102/partner-finder/internal/testutil"
)

func TestPostgresStore_Users(t *testing.T) {
	store := testutil.NewPostgresStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, store, "Alice")
	bob := testutil.CreateUser(t, store, "Bob")

	got, err := store.Repos().Users.GetByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if got.ID != alice.ID || got.Name != "Alice" {
		t.Errorf("GetByEmail() = %+v, want %+v", got, alice)
	}

	dup := &models.User{Name: "Other", Email: "alice@example.com", PasswordHash: "x"}
	if err := store.Repos().Users.Create(ctx, dup); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Create() duplicate email error = %v, want conflict", err)
	}

	if _, err := store.Repos().Users.GetByID(ctx, 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want not found", err)
	}

	others, err := store.Repos().Users.ListExcluding(ctx, []int64{alice.ID})
	if err != nil {
		t.Fatalf("ListExcluding() error = %v", err)
	}
	if len(others) != 1 || others[0].ID != bob.ID {
		t.Errorf("ListExcluding() = %v, want only Bob", others)
	}
}

func TestPostgresStore_Follows(t *testing.T) {
	store := testutil.NewPostgresStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, store, "Alice")
	bob := testutil.CreateUser(t, store, "Bob")

	follows := store.Repos().Follows
	edge := &models.UserAssociation{UserID: alice.ID, FriendID: bob.ID, FollowedAt: time.Now().UTC()}
	if err := follows.Create(ctx, edge); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	again := &models.UserAssociation{UserID: alice.ID, FriendID: bob.ID, FollowedAt: time.Now().UTC()}
	if err := follows.Create(ctx, again); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Create() duplicate error = %v, want conflict", err)
	}

	exists, err := follows.Exists(ctx, alice.ID, bob.ID)
	if err != nil || !exists {
		t.Errorf("Exists(alice, bob) = %v, %v, want true", exists, err)
	}
	exists, err = follows.Exists(ctx, bob.ID, alice.ID)
	if err != nil || exists {
		t.Errorf("Exists(bob, alice) = %v, %v, want false", exists, err)
	}

	followers, err := follows.ListFollowers(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListFollowers() error = %v", err)
	}
	if len(followers) != 1 || followers[0].ID != alice.ID {
		t.Errorf("ListFollowers(bob) = %v, want Alice", followers)
	}
}

func TestPostgresStore_AreasAndInterests(t *testing.T) {
	store := testutil.NewPostgresStore(t)
	ctx := context.Background()

	testutil.CreateArea(t, store, "usa", "USA", "")
	testutil.CreateArea(t, store, "yosemite", "Yosemite", "usa")
	testutil.CreateArea(t, store, "el-cap", "El Capitan", "yosemite")
	testutil.CreateClimb(t, store, "nose", "The Nose", "el-cap")
	user := testutil.CreateUser(t, store, "Alice")

	chain, err := store.Repos().Areas.Ancestry(ctx, "el-cap")
	if err != nil {
		t.Fatalf("Ancestry() error = %v", err)
	}
	want := []string{"usa", "yosemite", "el-cap"}
	if len(chain) != len(want) {
		t.Fatalf("Ancestry() returned %d areas, want %d", len(chain), len(want))
	}
	for i, a := range chain {
		if a.ID != want[i] {
			t.Errorf("Ancestry()[%d] = %s, want %s", i, a.ID, want[i])
		}
	}

	interests := store.Repos().Interests
	added, err := interests.Create(ctx, &models.UserInterest{UserID: user.ID, ClimbID: "nose"})
	if err != nil || !added {
		t.Fatalf("Create() = %v, %v, want added", added, err)
	}
	added, err = interests.Create(ctx, &models.UserInterest{UserID: user.ID, ClimbID: "nose"})
	if err != nil || added {
		t.Errorf("Create() duplicate = %v, %v, want not added", added, err)
	}

	users, err := interests.UsersInterestedIn(ctx, "nose", nil)
	if err != nil {
		t.Fatalf("UsersInterestedIn() error = %v", err)
	}
	if len(users) != 1 || users[0].ID != user.ID {
		t.Errorf("UsersInterestedIn() = %v, want Alice", users)
	}

	removed, err := interests.Delete(ctx, user.ID, "nose")
	if err != nil || !removed {
		t.Errorf("Delete() = %v, %v, want removed", removed, err)
	}
}

func TestPostgresStore_WithTxRollback(t *testing.T) {
	store := testutil.NewPostgresStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
		u := &models.User{Name: "Alice", Email: "alice@example.com", PasswordHash: "x"}
		if err := r.Users.Create(ctx, u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v, want %v", err, boom)
	}

	if _, err := store.Repos().Users.GetByEmail(ctx, "alice@example.com"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByEmail() after rollback error = %v, want not found", err)
	}
}

func TestPostgresStore_FeedAndNotifications(t *testing.T) {
	store := testutil.NewPostgresStore(t)
	ctx := context.Background()

	alice := testutil.CreateUser(t, store, "Alice")
	bob := testutil.CreateUser(t, store, "Bob")

	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for i, details := range []string{"first", "second", "third"} {
		item := &models.FeedItem{
			UserID:    alice.ID,
			Action:    models.ActionNewInterestClimb,
			Details:   details,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Repos().FeedItems.Create(ctx, item); err != nil {
			t.Fatalf("FeedItems.Create() error = %v", err)
		}
	}

	items, err := store.Repos().FeedItems.ListByUsers(ctx, []int64{alice.ID, bob.ID}, 2)
	if err != nil {
		t.Fatalf("ListByUsers() error = %v", err)
	}
	if len(items) != 2 || items[0].Details != "third" || items[1].Details != "second" {
		t.Errorf("ListByUsers() = %v, want third then second", items)
	}
	if items[0].UserName != "Alice" {
		t.Errorf("ListByUsers()[0].UserName = %q, want Alice", items[0].UserName)
	}

	notifications := store.Repos().Notifications
	n := &models.Notification{
		UserID:           bob.ID,
		SourceUserID:     alice.ID,
		Message:          "Alice started following you.",
		Timestamp:        base,
		NotificationType: models.NotificationTypeFollow,
	}
	if err := notifications.Create(ctx, n); err != nil {
		t.Fatalf("Notifications.Create() error = %v", err)
	}

	if count, err := notifications.CountUnread(ctx, bob.ID); err != nil || count != 1 {
		t.Errorf("CountUnread() = %d, %v, want 1", count, err)
	}
	if err := notifications.MarkRead(ctx, n.ID); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if count, err := notifications.CountUnread(ctx, bob.ID); err != nil || count != 0 {
		t.Errorf("CountUnread() after MarkRead = %d, %v, want 0", count, err)
	}
	if err := notifications.MarkRead(ctx, 9999); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("MarkRead() unknown id error = %v, want not found", err)
	}
}
