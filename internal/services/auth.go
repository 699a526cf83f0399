package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/auth"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
)

// AuthService is the login gate. The session it maintains is persisted so
// the REPL resumes it after a restart.
type AuthService struct {
	state *app.State
	delay time.Duration
	log   logging.Logger
}

// NewAuthService returns an AuthService over state. loginDelay is waited
// before every credential check.
func NewAuthService(state *app.State, loginDelay time.Duration, log logging.Logger) *AuthService {
	return &AuthService{state: state, delay: loginDelay, log: log.With("module", "auth")}
}

// Authenticate checks credentials after the configured login delay. The
// returned user has no password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (models.User, error) {
	if err := sleep(ctx, s.delay); err != nil {
		return models.User{}, err
	}

	u, err := auth.Authenticate(s.state.Users(), username, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "username", username)
		return models.User{}, err
	}
	return u.Public(), nil
}

// Login authenticates and makes the user the persisted session user.
func (s *AuthService) Login(ctx context.Context, username, password string) (models.User, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return models.User{}, err
	}
	if err := s.state.SetSessionUser(ctx, &u); err != nil {
		return models.User{}, err
	}
	s.log.Info(ctx, "logged in", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// Logout clears the persisted session.
func (s *AuthService) Logout(ctx context.Context) error {
	if u, ok := s.state.Session(); ok {
		s.log.Info(ctx, "logged out", "user_id", u.ID)
	}
	return s.state.SetSessionUser(ctx, nil)
}

// Current returns the session user.
func (s *AuthService) Current() (models.User, bool) {
	return s.state.Session()
}

// Lookup returns the current record of user id without its password. Token
// holders are re-resolved through it so role changes and deletions apply at
// once.
func (s *AuthService) Lookup(id string) (models.User, error) {
	u, err := s.state.User(id)
	if err != nil {
		return models.User{}, err
	}
	return u.Public(), nil
}
