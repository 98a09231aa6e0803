package memory

import (
	"context"
	"sort"

	"github.com/mmc102/partner-finder/internal/apperrors"
	"github.com/mmc102/partner-finder/internal/models"
)

func contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

func sortUsers(users []*models.User) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
}

func sortClimbs(climbs []*models.Climb) {
	sort.Slice(climbs, func(i, j int) bool {
		if climbs[i].Name != climbs[j].Name {
			return climbs[i].Name < climbs[j].Name
		}
		return climbs[i].ID < climbs[j].ID
	})
}

func sortAreas(areas []*models.Area) {
	sort.Slice(areas, func(i, j int) bool {
		return areas[i].Name < areas[j].Name
	})
}

// edges returns the follow edges sorted oldest first
func (s *state) edges() []*models.UserAssociation {
	out := append([]*models.UserAssociation(nil), s.follows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].FollowedAt.Equal(out[j].FollowedAt) {
			return out[i].FollowedAt.Before(out[j].FollowedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type userRepo struct{ base }

func (r *userRepo) Create(_ context.Context, user *models.User) error {
	return r.with(func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return apperrors.Conflict("email already registered")
			}
		}
		user.ID = st.next("users")
		cp := *user
		st.users[user.ID] = &cp
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	var out *models.User
	err := r.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return apperrors.NotFound("user not found")
		}
		cp := *u
		out = &cp
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				cp := *u
				out = &cp
				return nil
			}
		}
		return apperrors.NotFound("user not found")
	})
	return out, err
}

func (r *userRepo) ListExcluding(_ context.Context, ids []int64) ([]*models.User, error) {
	var out []*models.User
	err := r.with(func(st *state) error {
		for _, u := range st.users {
			if contains(ids, u.ID) {
				continue
			}
			cp := *u
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

type followRepo struct{ base }

func (r *followRepo) Exists(_ context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	err := r.with(func(st *state) error {
		for _, f := range st.follows {
			if f.UserID == userID && f.FriendID == friendID {
				exists = true
				break
			}
		}
		return nil
	})
	return exists, err
}

func (r *followRepo) Create(_ context.Context, assoc *models.UserAssociation) error {
	return r.with(func(st *state) error {
		for _, f := range st.follows {
			if f.UserID == assoc.UserID && f.FriendID == assoc.FriendID {
				return apperrors.Conflict("you are already following this user")
			}
		}
		assoc.ID = st.next("user_associations")
		cp := *assoc
		st.follows = append(st.follows, &cp)
		return nil
	})
}

func (r *followRepo) ListFollowing(_ context.Context, userID int64) ([]*models.User, error) {
	var out []*models.User
	err := r.with(func(st *state) error {
		for _, f := range st.edges() {
			if f.UserID != userID {
				continue
			}
			if u, ok := st.users[f.FriendID]; ok {
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *followRepo) ListFollowers(_ context.Context, userID int64) ([]*models.User, error) {
	var out []*models.User
	err := r.with(func(st *state) error {
		for _, f := range st.edges() {
			if f.FriendID != userID {
				continue
			}
			if u, ok := st.users[f.UserID]; ok {
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	return out, err
}

func (r *followRepo) FollowingIDs(_ context.Context, userID int64) ([]int64, error) {
	var out []int64
	err := r.with(func(st *state) error {
		for _, f := range st.edges() {
			if f.UserID == userID {
				out = append(out, f.FriendID)
			}
		}
		return nil
	})
	return out, err
}

type areaRepo struct{ base }

func (r *areaRepo) Create(_ context.Context, area *models.Area) error {
	return r.with(func(st *state) error {
		if _, ok := st.areas[area.ID]; ok {
			return apperrors.Conflict("area already exists")
		}
		cp := *area
		st.areas[area.ID] = &cp
		return nil
	})
}

func (r *areaRepo) GetByID(_ context.Context, id string) (*models.Area, error) {
	var out *models.Area
	err := r.with(func(st *state) error {
		a, ok := st.areas[id]
		if !ok {
			return apperrors.NotFound("area not found")
		}
		cp := *a
		out = &cp
		return nil
	})
	return out, err
}

func (r *areaRepo) ListRoots(_ context.Context) ([]*models.Area, error) {
	var out []*models.Area
	err := r.with(func(st *state) error {
		for _, a := range st.areas {
			if a.ParentID == nil {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	sortAreas(out)
	return out, err
}

func (r *areaRepo) ListChildren(_ context.Context, parentID string) ([]*models.Area, error) {
	var out []*models.Area
	err := r.with(func(st *state) error {
		for _, a := range st.areas {
			if a.ParentID != nil && *a.ParentID == parentID {
				cp := *a
				out = append(out, &cp)
			}
		}
		return nil
	})
	sortAreas(out)
	return out, err
}

func (r *areaRepo) Ancestry(_ context.Context, id string) ([]*models.Area, error) {
	var out []*models.Area
	err := r.with(func(st *state) error {
		a, ok := st.areas[id]
		if !ok {
			return apperrors.NotFound("area not found")
		}
		// bounded by the number of areas so a corrupt cycle cannot loop forever
		for i := 0; a != nil && i <= len(st.areas); i++ {
			cp := *a
			out = append([]*models.Area{&cp}, out...)
			if a.ParentID == nil {
				break
			}
			a = st.areas[*a.ParentID]
		}
		return nil
	})
	return out, err
}

type climbRepo struct{ base }

func (r *climbRepo) Create(_ context.Context, climb *models.Climb) error {
	return r.with(func(st *state) error {
		if _, ok := st.climbs[climb.ID]; ok {
			return apperrors.Conflict("climb already exists")
		}
		if _, ok := st.areas[climb.AreaID]; !ok {
			return apperrors.NotFound("area not found")
		}
		cp := *climb
		st.climbs[climb.ID] = &cp
		return nil
	})
}

func (r *climbRepo) GetByID(_ context.Context, id string) (*models.Climb, error) {
	var out *models.Climb
	err := r.with(func(st *state) error {
		c, ok := st.climbs[id]
		if !ok {
			return apperrors.NotFound("climb not found")
		}
		cp := *c
		out = &cp
		return nil
	})
	return out, err
}

func (r *climbRepo) List(_ context.Context) ([]*models.Climb, error) {
	return r.filter(func(_ *state, c *models.Climb) bool { return true })
}

func (r *climbRepo) ListByArea(_ context.Context, areaID string) ([]*models.Climb, error) {
	return r.filter(func(_ *state, c *models.Climb) bool { return c.AreaID == areaID })
}

func (r *climbRepo) ListByInterest(_ context.Context, userID int64) ([]*models.Climb, error) {
	return r.filter(func(st *state, c *models.Climb) bool {
		for _, i := range st.interests {
			if i.UserID == userID && i.ClimbID == c.ID {
				return true
			}
		}
		return false
	})
}

func (r *climbRepo) filter(keep func(st *state, c *models.Climb) bool) ([]*models.Climb, error) {
	var out []*models.Climb
	err := r.with(func(st *state) error {
		for _, c := range st.climbs {
			if keep(st, c) {
				cp := *c
				out = append(out, &cp)
			}
		}
		return nil
	})
	sortClimbs(out)
	return out, err
}

type interestRepo struct{ base }

func (r *interestRepo) Create(_ context.Context, interest *models.UserInterest) (bool, error) {
	var created bool
	err := r.with(func(st *state) error {
		for _, i := range st.interests {
			if i.UserID == interest.UserID && i.ClimbID == interest.ClimbID {
				return nil
			}
		}
		interest.ID = st.next("user_interests")
		cp := *interest
		st.interests = append(st.interests, &cp)
		created = true
		return nil
	})
	return created, err
}

func (r *interestRepo) Get(_ context.Context, userID int64, climbID string) (*models.UserInterest, error) {
	var out *models.UserInterest
	err := r.with(func(st *state) error {
		for _, i := range st.interests {
			if i.UserID == userID && i.ClimbID == climbID {
				cp := *i
				out = &cp
				return nil
			}
		}
		return apperrors.NotFound("interest not found")
	})
	return out, err
}

func (r *interestRepo) Delete(_ context.Context, userID int64, climbID string) (bool, error) {
	var deleted bool
	err := r.with(func(st *state) error {
		kept := st.interests[:0]
		for _, i := range st.interests {
			if i.UserID == userID && i.ClimbID == climbID {
				deleted = true
				continue
			}
			kept = append(kept, i)
		}
		st.interests = kept
		return nil
	})
	return deleted, err
}

func (r *interestRepo) ClimbIDs(_ context.Context, userID int64) ([]string, error) {
	var out []string
	err := r.with(func(st *state) error {
		for _, i := range st.interests {
			if i.UserID == userID {
				out = append(out, i.ClimbID)
			}
		}
		return nil
	})
	return out, err
}

func (r *interestRepo) UsersInterestedIn(_ context.Context, climbID string, among []int64) ([]*models.User, error) {
	var out []*models.User
	err := r.with(func(st *state) error {
		for _, i := range st.interests {
			if i.ClimbID != climbID {
				continue
			}
			if among != nil && !contains(among, i.UserID) {
				continue
			}
			if u, ok := st.users[i.UserID]; ok {
				cp := *u
				out = append(out, &cp)
			}
		}
		return nil
	})
	sortUsers(out)
	return out, err
}

type feedRepo struct{ base }

func (r *feedRepo) Create(_ context.Context, item *models.FeedItem) error {
	return r.with(func(st *state) error {
		item.ID = st.next("feed_items")
		cp := *item
		cp.UserName = ""
		st.feed = append(st.feed, &cp)
		return nil
	})
}

func (r *feedRepo) ListByUsers(_ context.Context, userIDs []int64, limit int) ([]*models.FeedItem, error) {
	var out []*models.FeedItem
	err := r.with(func(st *state) error {
		for _, f := range st.feed {
			if !contains(userIDs, f.UserID) {
				continue
			}
			cp := *f
			if u, ok := st.users[f.UserID]; ok {
				cp.UserName = u.Name
			}
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, err
}

type notificationRepo struct{ base }

func (r *notificationRepo) Create(_ context.Context, n *models.Notification) error {
	return r.with(func(st *state) error {
		n.ID = st.next("notifications")
		cp := *n
		cp.SourceUserName = ""
		st.notifications[n.ID] = &cp
		return nil
	})
}

func (r *notificationRepo) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	var out *models.Notification
	err := r.with(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return apperrors.NotFound("notification not found")
		}
		out = st.view(n)
		return nil
	})
	return out, err
}

func (r *notificationRepo) ListByUser(_ context.Context, userID int64) ([]*models.Notification, error) {
	var out []*models.Notification
	err := r.with(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID {
				out = append(out, st.view(n))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *notificationRepo) CountUnread(_ context.Context, userID int64) (int, error) {
	var count int
	err := r.with(func(st *state) error {
		for _, n := range st.notifications {
			if n.UserID == userID && !n.Read {
				count++
			}
		}
		return nil
	})
	return count, err
}

func (r *notificationRepo) MarkRead(_ context.Context, id int64) error {
	return r.with(func(st *state) error {
		n, ok := st.notifications[id]
		if !ok {
			return apperrors.NotFound("notification not found")
		}
		n.Read = true
		return nil
	})
}

// view copies a notification and fills the source user's name
func (s *state) view(n *models.Notification) *models.Notification {
	cp := *n
	if u, ok := s.users[n.SourceUserID]; ok {
		cp.SourceUserName = u.Name
	}
	return &cp
}
