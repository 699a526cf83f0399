// Package auth checks credentials against the loaded user collection.
package auth

import (
	"errors"

	"github.com/dmitrijs2005/arsip/internal/cryptox"
	"github.com/dmitrijs2005/arsip/internal/models"
)

// ErrAuthFailure is returned for any unsuccessful login. It deliberately
// does not say whether the username or the password was wrong.
var ErrAuthFailure = errors.New("invalid username or password")

// Authenticate returns the first user whose username matches exactly and
// whose stored password (hashed or legacy plaintext) verifies.
func Authenticate(users []models.User, username, password string) (models.User, error) {
	for _, u := range users {
		if u.Username != username {
			continue
		}
		ok, err := cryptox.VerifyPassword(u.Password, password)
		if err == nil && ok {
			return u, nil
		}
	}
	return models.User{}, ErrAuthFailure
}
