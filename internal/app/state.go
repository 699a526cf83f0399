// Package app holds the in-memory application state: the letter and user
// collections, the session user and the app title. Every mutation goes
// through a named method that writes the affected collection back to the
// store as a full snapshot before the in-memory copy is replaced.
package app

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/store"
)

// DefaultAppTitle is used until an administrator sets a title.
const DefaultAppTitle = "ARSUDI"

// State is the application-state container shared by the services. It
// owns the letter and user collections, the session user and the app
// title. Reads return copies; writes go through the named mutations below
// and reach the store before the in-memory collection changes. State is
// safe for concurrent use.
type State struct {
	st  *store.Store
	log logging.Logger

	mu      sync.RWMutex
	letters []models.Letter
	users   []models.User
	session *models.User
	title   string
}

// Load builds the state from st. Absent or unreadable collections fall back
// to the built-in seeds, which are then written back.
func Load(ctx context.Context, st *store.Store, log logging.Logger) (*State, error) {
	s := &State{st: st, log: log.With("module", "app")}

	letters, ok := store.Load[[]models.Letter](ctx, st, store.KeyLetters)
	if !ok || letters == nil {
		letters = models.DefaultLetters()
	}
	users, ok := store.Load[[]models.User](ctx, st, store.KeyUsers)
	if !ok || users == nil {
		users = models.DefaultUsers()
	}
	if u, ok := store.Load[models.User](ctx, st, store.KeySessionUser); ok && u.ID != "" {
		s.session = &u
	}
	s.title = DefaultAppTitle
	if t, ok := st.LoadRaw(ctx, store.KeyAppTitle); ok && t != "" {
		s.title = t
	}

	if err := st.Save(ctx, store.KeyLetters, letters); err != nil {
		return nil, fmt.Errorf("persist letters: %w", err)
	}
	if err := st.Save(ctx, store.KeyUsers, users); err != nil {
		return nil, fmt.Errorf("persist users: %w", err)
	}
	s.letters = letters
	s.users = users

	s.log.Info(ctx, "state loaded", "letters", len(letters), "users", len(users), "session", s.session != nil)
	return s, nil
}

// Letters returns a copy of the letter collection, newest first.
func (s *State) Letters() []models.Letter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Letter, len(s.letters))
	for i, l := range s.letters {
		out[i] = l.Clone()
	}
	return out
}

// Letter returns the letter with the given id.
func (s *State) Letter(id string) (models.Letter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexLetter(s.letters, id)
	if i < 0 {
		return models.Letter{}, fmt.Errorf("letter %s: %w", id, common.ErrNotFound)
	}
	return s.letters[i].Clone(), nil
}

// AddLetter prepends l. An existing id is rejected with ErrDuplicateID.
func (s *State) AddLetter(ctx context.Context, l models.Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		return fmt.Errorf("%w: letter id is empty", common.ErrValidation)
	}
	if indexLetter(s.letters, l.ID) >= 0 {
		return fmt.Errorf("letter %s: %w", l.ID, common.ErrDuplicateID)
	}

	next := make([]models.Letter, 0, len(s.letters)+1)
	next = append(next, l.Clone())
	next = append(next, s.letters...)
	return s.commitLetters(ctx, next)
}

// UpdateLetter replaces the letter with l.ID in place.
func (s *State) UpdateLetter(ctx context.Context, l models.Letter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexLetter(s.letters, l.ID)
	if i < 0 {
		return fmt.Errorf("letter %s: %w", l.ID, common.ErrNotFound)
	}

	next := slices.Clone(s.letters)
	next[i] = l.Clone()
	return s.commitLetters(ctx, next)
}

// DeleteLetter removes the letter with id.
func (s *State) DeleteLetter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexLetter(s.letters, id)
	if i < 0 {
		return fmt.Errorf("letter %s: %w", id, common.ErrNotFound)
	}

	next := slices.Delete(slices.Clone(s.letters), i, i+1)
	return s.commitLetters(ctx, next)
}

func (s *State) commitLetters(ctx context.Context, next []models.Letter) error {
	if err := s.st.Save(ctx, store.KeyLetters, next); err != nil {
		return err
	}
	s.letters = next
	return nil
}

func indexLetter(ls []models.Letter, id string) int {
	return slices.IndexFunc(ls, func(l models.Letter) bool { return l.ID == id })
}

func checkUniqueLetters(letters []models.Letter) error {
	ids := make(map[string]bool, len(letters))
	for _, l := range letters {
		if ids[l.ID] {
			return fmt.Errorf("letter %s: %w", l.ID, common.ErrDuplicateID)
		}
		ids[l.ID] = true
	}
	return nil
}
