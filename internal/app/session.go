package app

import (
	"context"

	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/store"
)

// Session returns the signed-in user, if any. The value is a snapshot taken
// at login and is not refreshed when the user row changes.
func (s *State) Session() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return models.User{}, false
	}
	return *s.session, true
}

// SetSessionUser persists u as the session user; nil clears the session.
// Passwords are never written to the session key.
func (s *State) SetSessionUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u == nil {
		if err := s.st.Clear(ctx, store.KeySessionUser); err != nil {
			return err
		}
		s.session = nil
		return nil
	}

	pub := u.Public()
	if err := s.st.Save(ctx, store.KeySessionUser, pub); err != nil {
		return err
	}
	s.session = &pub
	return nil
}

// AppTitle returns the configured application title.
func (s *State) AppTitle() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.title
}

// SetAppTitle stores title as a plain string.
func (s *State) SetAppTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.st.SaveRaw(ctx, store.KeyAppTitle, title); err != nil {
		return err
	}
	s.title = title
	return nil
}

// Replace swaps all three collections in one store transaction. Used when
// restoring a backup.
func (s *State) Replace(ctx context.Context, letters []models.Letter, users []models.User, title string) error {
	if err := checkUnique(users); err != nil {
		return err
	}
	if err := checkUniqueLetters(letters); err != nil {
		return err
	}
	if title == "" {
		title = DefaultAppTitle
	}
	if letters == nil {
		letters = []models.Letter{}
	}
	if users == nil {
		users = []models.User{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.st.Atomic(ctx, func(ctx context.Context, tx *store.Store) error {
		if err := tx.Save(ctx, store.KeyLetters, letters); err != nil {
			return err
		}
		if err := tx.Save(ctx, store.KeyUsers, users); err != nil {
			return err
		}
		return tx.SaveRaw(ctx, store.KeyAppTitle, title)
	})
	if err != nil {
		return err
	}

	s.letters = letters
	s.users = users
	s.title = title
	return nil
}

// RawCollections returns the stored letters and users JSON as written,
// for embedding in a backup.
func (s *State) RawCollections(ctx context.Context) (letters, users string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	letters, _ = s.st.LoadRaw(ctx, store.KeyLetters)
	users, _ = s.st.LoadRaw(ctx, store.KeyUsers)
	return letters, users
}

// StorageUsage reports the approximate size of everything in the store.
func (s *State) StorageUsage(ctx context.Context) (int, error) {
	return s.st.Usage(ctx)
}
