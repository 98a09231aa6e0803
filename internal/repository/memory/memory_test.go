package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

func mustCreateUser(t *testing.T, s *Store, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: name + "@example.com", PasswordHash: "x"}
	if err := s.Repos().Users.Create(context.Background(), u); err != nil {
		t.Fatalf("Users.Create(%s) error = %v", name, err)
	}
	return u
}

func TestStore_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("commits when fn succeeds", func(t *testing.T) {
		s := NewStore()
		err := s.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
			return r.Users.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com"})
		})
		if err != nil {
			t.Fatalf("WithTx() error = %v", err)
		}

		if _, err := s.Repos().Users.GetByEmail(ctx, "alice@example.com"); err != nil {
			t.Errorf("GetByEmail() after commit error = %v", err)
		}
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		s := NewStore()
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
			if err := r.Users.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com"}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("WithTx() error = %v, want %v", err, boom)
		}

		_, err = s.Repos().Users.GetByEmail(ctx, "alice@example.com")
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("GetByEmail() after rollback error = %v, want not found", err)
		}
	})

	t.Run("rolls back mutations of existing rows", func(t *testing.T) {
		s := NewStore()
		alice := mustCreateUser(t, s, "alice")
		bob := mustCreateUser(t, s, "bob")
		n := &models.Notification{UserID: bob.ID, SourceUserID: alice.ID, Message: "hi"}
		if err := s.Repos().Notifications.Create(ctx, n); err != nil {
			t.Fatalf("Notifications.Create() error = %v", err)
		}

		_ = s.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
			if err := r.Notifications.MarkRead(ctx, n.ID); err != nil {
				return err
			}
			return errors.New("abort")
		})

		count, err := s.Repos().Notifications.CountUnread(ctx, bob.ID)
		if err != nil {
			t.Fatalf("CountUnread() error = %v", err)
		}
		if count != 1 {
			t.Errorf("CountUnread() = %d, want 1", count)
		}
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		s := NewStore()
		func() {
			defer func() { _ = recover() }()
			_ = s.WithTx(ctx, func(ctx context.Context, r *repository.Set) error {
				_ = r.Users.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com"})
				panic("boom")
			})
		}()

		_, err := s.Repos().Users.GetByEmail(ctx, "alice@example.com")
		if !errors.Is(err, apperrors.ErrNotFound) {
			t.Errorf("GetByEmail() after panic error = %v, want not found", err)
		}
	})
}

func TestUsers_CreateDuplicateEmail(t *testing.T) {
	s := NewStore()
	mustCreateUser(t, s, "alice")

	err := s.Repos().Users.Create(context.Background(), &models.User{Name: "Other", Email: "alice@example.com"})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Create() error = %v, want conflict", err)
	}
}

func TestFollows(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	carol := mustCreateUser(t, s, "carol")
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	follows := s.Repos().Follows
	for i, friend := range []*models.User{carol, bob} {
		assoc := &models.UserAssociation{UserID: alice.ID, FriendID: friend.ID, FollowedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := follows.Create(ctx, assoc); err != nil {
			t.Fatalf("Follows.Create() error = %v", err)
		}
	}

	t.Run("duplicate edge conflicts", func(t *testing.T) {
		err := follows.Create(ctx, &models.UserAssociation{UserID: alice.ID, FriendID: bob.ID, FollowedAt: base})
		if !errors.Is(err, apperrors.ErrConflict) {
			t.Errorf("Create() error = %v, want conflict", err)
		}
	})

	t.Run("following is ordered by follow time", func(t *testing.T) {
		users, err := follows.ListFollowing(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListFollowing() error = %v", err)
		}
		if len(users) != 2 || users[0].ID != carol.ID || users[1].ID != bob.ID {
			t.Errorf("ListFollowing() = %v, want [carol bob]", users)
		}
	})

	t.Run("followers is the reverse projection", func(t *testing.T) {
		users, err := follows.ListFollowers(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListFollowers() error = %v", err)
		}
		if len(users) != 1 || users[0].ID != alice.ID {
			t.Errorf("ListFollowers() = %v, want [alice]", users)
		}

		users, err = follows.ListFollowers(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListFollowers() error = %v", err)
		}
		if len(users) != 0 {
			t.Errorf("ListFollowers(alice) = %v, want empty", users)
		}
	})
}

func TestAreas_Ancestry(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	areas := s.Repos().Areas

	root := &models.Area{ID: "tn", Name: "Tennessee"}
	parentID := root.ID
	mid := &models.Area{ID: "foster", Name: "Foster Falls", ParentID: &parentID}
	midID := mid.ID
	leaf := &models.Area{ID: "main", Name: "Main Wall", ParentID: &midID}
	for _, a := range []*models.Area{root, mid, leaf} {
		if err := areas.Create(ctx, a); err != nil {
			t.Fatalf("Areas.Create(%s) error = %v", a.ID, err)
		}
	}

	chain, err := areas.Ancestry(ctx, "main")
	if err != nil {
		t.Fatalf("Ancestry() error = %v", err)
	}
	want := []string{"tn", "foster", "main"}
	if len(chain) != len(want) {
		t.Fatalf("Ancestry() len = %d, want %d", len(chain), len(want))
	}
	for i, id := range want {
		if chain[i].ID != id {
			t.Errorf("Ancestry()[%d] = %s, want %s", i, chain[i].ID, id)
		}
	}

	if _, err := areas.Ancestry(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Ancestry(missing) error = %v, want not found", err)
	}
}

func TestFeedItems_ListByUsers(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := mustCreateUser(t, s, "alice")
	bob := mustCreateUser(t, s, "bob")
	carol := mustCreateUser(t, s, "carol")
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	feed := s.Repos().FeedItems
	items := []*models.FeedItem{
		{UserID: alice.ID, Action: models.ActionFollowed, Details: "a1", Timestamp: base},
		{UserID: bob.ID, Action: models.ActionFollowed, Details: "b1", Timestamp: base.Add(2 * time.Minute)},
		{UserID: carol.ID, Action: models.ActionFollowed, Details: "c1", Timestamp: base.Add(3 * time.Minute)},
		{UserID: alice.ID, Action: models.ActionFollowed, Details: "a2", Timestamp: base.Add(2 * time.Minute)},
	}
	for _, item := range items {
		if err := feed.Create(ctx, item); err != nil {
			t.Fatalf("FeedItems.Create() error = %v", err)
		}
	}

	got, err := feed.ListByUsers(ctx, []int64{alice.ID, bob.ID}, 0)
	if err != nil {
		t.Fatalf("ListByUsers() error = %v", err)
	}
	want := []string{"a2", "b1", "a1"}
	if len(got) != len(want) {
		t.Fatalf("ListByUsers() len = %d, want %d", len(got), len(want))
	}
	for i, d := range want {
		if got[i].Details != d {
			t.Errorf("ListByUsers()[%d] = %s, want %s", i, got[i].Details, d)
		}
	}
	if got[1].UserName != "bob" {
		t.Errorf("UserName = %q, want bob", got[1].UserName)
	}

	limited, err := feed.ListByUsers(ctx, []int64{alice.ID, bob.ID}, 2)
	if err != nil {
		t.Fatalf("ListByUsers(limit 2) error = %v", err)
	}
	if len(limited) != 2 || limited[0].Details != "a2" || limited[1].Details != "b1" {
		t.Errorf("ListByUsers(limit 2) = %v, want [a2 b1]", limited)
	}
}

func TestInterests_CreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	alice := mustCreateUser(t, s, "alice")

	interests := s.Repos().Interests
	created, err := interests.Create(ctx, &models.UserInterest{UserID: alice.ID, ClimbID: "c1"})
	if err != nil || !created {
		t.Fatalf("first Create() = %v, %v; want true, nil", created, err)
	}
	created, err = interests.Create(ctx, &models.UserInterest{UserID: alice.ID, ClimbID: "c1"})
	if err != nil || created {
		t.Fatalf("second Create() = %v, %v; want false, nil", created, err)
	}

	ids, err := interests.ClimbIDs(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ClimbIDs() error = %v", err)
	}
	if len(ids) != 1 {
		t.Errorf("ClimbIDs() = %v, want one entry", ids)
	}

	deleted, err := interests.Delete(ctx, alice.ID, "c1")
	if err != nil || !deleted {
		t.Errorf("Delete() = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = interests.Delete(ctx, alice.ID, "c1")
	if err != nil || deleted {
		t.Errorf("second Delete() = %v, %v; want false, nil", deleted, err)
	}
}
