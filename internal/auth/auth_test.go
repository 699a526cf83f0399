package auth

import (
	"testing"

	"github.com/dmitrijs2005/arsip/internal/cryptox"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_SeededUsers(t *testing.T) {
	users := models.DefaultUsers()

	u, err := Authenticate(users, "staff", "staff123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, "2", u.ID)

	u, err = Authenticate(users, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	users := models.DefaultUsers()

	_, wrongPass := Authenticate(users, "staff", "wrong")
	_, unknownUser := Authenticate(users, "nobody", "staff123")
	_, wrongCase := Authenticate(users, "Staff", "staff123")

	for _, err := range []error{wrongPass, unknownUser, wrongCase} {
		require.ErrorIs(t, err, ErrAuthFailure)
		assert.Equal(t, ErrAuthFailure.Error(), err.Error())
	}
}

func TestAuthenticate_HashedPasswords(t *testing.T) {
	users := []models.User{
		{ID: "9", Username: "arsiparis", Password: cryptox.HashPassword("rahasia"), Role: models.RoleUser},
	}

	_, err := Authenticate(users, "arsiparis", "rahasia")
	require.NoError(t, err)

	_, err = Authenticate(users, "arsiparis", "salah")
	require.ErrorIs(t, err, ErrAuthFailure)
}

func TestAuthenticate_FirstMatchWins(t *testing.T) {
	users := []models.User{
		{ID: "a", Username: "dup", Password: "pw", FullName: "First"},
		{ID: "b", Username: "dup", Password: "pw", FullName: "Second"},
	}
	u, err := Authenticate(users, "dup", "pw")
	require.NoError(t, err)
	assert.Equal(t, "a", u.ID)
}

func TestAuthenticate_EmptyCollection(t *testing.T) {
	_, err := Authenticate(nil, "admin", "admin123")
	require.ErrorIs(t, err, ErrAuthFailure)
}
