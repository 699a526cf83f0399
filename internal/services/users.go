package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/cryptox"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
)

const userIDLen = 9

// UserService manages accounts and the application title.
type UserService struct {
	state *app.State
	log   logging.Logger
}

// NewUserService returns a UserService over state.
func NewUserService(state *app.State, log logging.Logger) *UserService {
	return &UserService{state: state, log: log.With("module", "users")}
}

// NewUser is the input for adding an account.
type NewUser struct {
	Username string
	Password string
	FullName string
	Role     models.UserRole
}

// List returns all users without passwords. Administrators only.
func (s *UserService) List(actor models.User) ([]models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users := s.state.Users()
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// Add creates an account with a hashed password. Role defaults to USER.
// Admin only.
func (s *UserService) Add(ctx context.Context, actor models.User, in NewUser) (models.User, error) {
	if err := requireAdmin(actor); err != nil {
		return models.User{}, err
	}

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if !in.Role.Valid() {
		return models.User{}, fmt.Errorf("%w: unknown role %q", common.ErrValidation, in.Role)
	}

	u := models.User{
		ID:       common.NewBase36ID(userIDLen),
		Username: in.Username,
		Password: cryptox.HashPassword(in.Password),
		Role:     in.Role,
		FullName: in.FullName,
	}
	if err := s.state.AddUser(ctx, u); err != nil {
		return models.User{}, err
	}

	s.log.Info(ctx, "user added", "id", u.ID, "username", u.Username, "role", u.Role, "by", actor.ID)
	return u.Public(), nil
}

// Delete removes a user. The account named "admin" cannot be deleted.
func (s *UserService) Delete(ctx context.Context, actor models.User, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	u, err := s.state.User(id)
	if err != nil {
		return err
	}
	if u.Username == models.ProtectedUsername {
		return fmt.Errorf("user %s: %w", u.Username, common.ErrProtectedUser)
	}

	if err := s.state.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.log.Info(ctx, "user deleted", "id", id, "username", u.Username, "by", actor.ID)
	return nil
}

// ResetPassword replaces the password of user id. Admin only.
func (s *UserService) ResetPassword(ctx context.Context, actor models.User, id, password string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}

	u, err := s.state.User(id)
	if err != nil {
		return err
	}
	u.Password = cryptox.HashPassword(password)
	if err := s.state.UpdateUser(ctx, u); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "id", id, "by", actor.ID)
	return nil
}

// UpdateProfile changes the actor's own full name and username, in the user
// collection and, when the actor is the session user, in the session.
func (s *UserService) UpdateProfile(ctx context.Context, actor models.User, fullName, username string) (models.User, error) {
	if err := requireUser(actor); err != nil {
		return models.User{}, err
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return models.User{}, fmt.Errorf("%w: username is required", common.ErrValidation)
	}

	u, err := s.state.User(actor.ID)
	if err != nil {
		return models.User{}, err
	}
	u.FullName = fullName
	u.Username = username
	if err := s.state.UpdateUser(ctx, u); err != nil {
		return models.User{}, err
	}

	if sess, ok := s.state.Session(); ok && sess.ID == u.ID {
		if err := s.state.SetSessionUser(ctx, &u); err != nil {
			return models.User{}, err
		}
	}

	s.log.Info(ctx, "profile updated", "id", u.ID)
	return u.Public(), nil
}

// AppTitle returns the configured application title.
func (s *UserService) AppTitle() string {
	return s.state.AppTitle()
}

// SetAppTitle stores a new application title. Admin only.
func (s *UserService) SetAppTitle(ctx context.Context, actor models.User, title string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	return s.state.SetAppTitle(ctx, title)
}
