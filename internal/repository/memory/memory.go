// Package memory is an in-memory implementation of repository.Store.
// It is used by tests and by the "memory" database driver for local runs.
package memory

import (
	"context"
	"sync"

	"github.com/mmc102/partner-finder/internal/models"
	"github.com/mmc102/partner-finder/internal/repository"
)

// state is one consistent snapshot of every table
type state struct {
	users         map[int64]*models.User
	follows       []*models.UserAssociation
	areas         map[string]*models.Area
	climbs        map[string]*models.Climb
	interests     []*models.UserInterest
	feed          []*models.FeedItem
	notifications map[int64]*models.Notification
	sequences     map[string]int64
}

func newState() *state {
	return &state{
		users:         make(map[int64]*models.User),
		areas:         make(map[string]*models.Area),
		climbs:        make(map[string]*models.Climb),
		notifications: make(map[int64]*models.Notification),
		sequences:     make(map[string]int64),
	}
}

func (s *state) next(table string) int64 {
	s.sequences[table]++
	return s.sequences[table]
}

func (s *state) clone() *state {
	c := newState()
	for id, u := range s.users {
		cp := *u
		c.users[id] = &cp
	}
	for _, f := range s.follows {
		cp := *f
		c.follows = append(c.follows, &cp)
	}
	for id, a := range s.areas {
		cp := *a
		c.areas[id] = &cp
	}
	for id, cl := range s.climbs {
		cp := *cl
		c.climbs[id] = &cp
	}
	for _, i := range s.interests {
		cp := *i
		c.interests = append(c.interests, &cp)
	}
	for _, f := range s.feed {
		cp := *f
		c.feed = append(c.feed, &cp)
	}
	for id, n := range s.notifications {
		cp := *n
		c.notifications[id] = &cp
	}
	for table, v := range s.sequences {
		c.sequences[table] = v
	}
	return c
}

// Store keeps all rows in memory. Safe for concurrent use.
// Transactions are serialized and work on a copy that replaces the
// live state only when the transaction function succeeds.
type Store struct {
	mu    sync.Mutex
	data  *state
	repos *repository.Set
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	s := &Store{data: newState()}
	s.repos = newSet(s, nil)
	return s
}

func newSet(s *Store, tx *state) *repository.Set {
	b := base{s: s, tx: tx}
	return &repository.Set{
		Users:         &userRepo{b},
		Follows:       &followRepo{b},
		Areas:         &areaRepo{b},
		Climbs:        &climbRepo{b},
		Interests:     &interestRepo{b},
		FeedItems:     &feedRepo{b},
		Notifications: &notificationRepo{b},
	}
}

// Repos returns repositories that lock the store for each call.
// Do not call them from inside WithTx; use the Set passed to the function.
func (s *Store) Repos() *repository.Set {
	return s.repos
}

// WithTx runs fn against a private copy of the data and publishes it on success
func (s *Store) WithTx(ctx context.Context, fn repository.TxFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(ctx, newSet(s, work)); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Close is a no-op
func (s *Store) Close() {}

// base routes a repository call either to the open transaction's copy
// or to the live state under the store lock.
type base struct {
	s  *Store
	tx *state
}

func (b base) with(fn func(st *state) error) error {
	if b.tx != nil {
		return fn(b.tx)
	}
	b.s.mu.Lock()
	defer b.s.mu.Unlock()
	return fn(b.s.data)
}
