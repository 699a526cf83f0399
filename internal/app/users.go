package app

import (
	"context"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/store"
)

// Users returns a copy of the user collection.
func (s *State) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

// User returns the user with the given id.
func (s *State) User(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexUser(s.users, id)
	if i < 0 {
		return models.User{}, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	return s.users[i], nil
}

// SetUsers replaces the whole user collection after checking that ids and
// usernames are unique.
func (s *State) SetUsers(ctx context.Context, users []models.User) error {
	if err := checkUnique(users); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitUsers(ctx, slices.Clone(users))
}

// AddUser appends u, rejecting a duplicate id or username.
func (s *State) AddUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.users), u)
	if err := checkUnique(next); err != nil {
		return err
	}
	return s.commitUsers(ctx, next)
}

// UpdateUser replaces the user with u.ID. Renaming onto another user's
// username is rejected.
func (s *State) UpdateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexUser(s.users, u.ID)
	if i < 0 {
		return fmt.Errorf("user %s: %w", u.ID, common.ErrNotFound)
	}

	next := slices.Clone(s.users)
	next[i] = u
	if err := checkUnique(next); err != nil {
		return err
	}
	return s.commitUsers(ctx, next)
}

// DeleteUser removes the user with id. It applies no policy of its own;
// protection of particular accounts belongs to the caller.
func (s *State) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexUser(s.users, id)
	if i < 0 {
		return fmt.Errorf("user %s: %w", id, common.ErrNotFound)
	}
	return s.commitUsers(ctx, slices.Delete(slices.Clone(s.users), i, i+1))
}

func (s *State) commitUsers(ctx context.Context, next []models.User) error {
	if err := s.st.Save(ctx, store.KeyUsers, next); err != nil {
		return err
	}
	s.users = next
	return nil
}

func indexUser(us []models.User, id string) int {
	return slices.IndexFunc(us, func(u models.User) bool { return u.ID == id })
}

func checkUnique(users []models.User) error {
	ids := make(map[string]bool, len(users))
	names := make(map[string]bool, len(users))
	for _, u := range users {
		if ids[u.ID] {
			return fmt.Errorf("user %s: %w", u.ID, common.ErrDuplicateID)
		}
		if names[u.Username] {
			return fmt.Errorf("username %s: %w", u.Username, common.ErrDuplicateUsername)
		}
		ids[u.ID] = true
		names[u.Username] = true
	}
	return nil
}
