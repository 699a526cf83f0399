package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/cryptox"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsers_AdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Users.List(staff())
	assert.ErrorIs(t, err, common.ErrForbidden)
	_, err = f.svc.Users.Add(ctx, staff(), NewUser{Username: "x", Password: "y"})
	assert.ErrorIs(t, err, common.ErrForbidden)
	assert.ErrorIs(t, f.svc.Users.Delete(ctx, staff(), "1"), common.ErrForbidden)
	assert.ErrorIs(t, f.svc.Users.ResetPassword(ctx, staff(), "1", "p"), common.ErrForbidden)
	assert.ErrorIs(t, f.svc.Users.SetAppTitle(ctx, staff(), "X"), common.ErrForbidden)
	_, err = f.svc.Users.List(models.User{})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestUsers_Add(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Users.Add(ctx, admin(), NewUser{Username: " budi ", Password: "budi123", FullName: "Budi"})
	require.NoError(t, err)
	assert.Len(t, u.ID, 9)
	assert.Equal(t, "budi", u.Username)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Empty(t, u.Password)

	stored, err := f.state.User(u.ID)
	require.NoError(t, err)
	assert.True(t, cryptox.IsHashed(stored.Password))
	ok, err := cryptox.VerifyPassword(stored.Password, "budi123")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := f.svc.Users.List(admin())
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, u := range list {
		assert.Empty(t, u.Password)
	}

	_, err = f.svc.Users.Add(ctx, admin(), NewUser{Username: "budi", Password: "x"})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	_, err = f.svc.Users.Add(ctx, admin(), NewUser{Username: "", Password: "x"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.Users.Add(ctx, admin(), NewUser{Username: "c", Password: "x", Role: "ROOT"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUsers_DeleteProtectsAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Users.Delete(ctx, admin(), "1")
	assert.ErrorIs(t, err, common.ErrProtectedUser)
	_, err = f.state.User("1")
	assert.NoError(t, err)

	require.NoError(t, f.svc.Users.Delete(ctx, admin(), "2"))
	_, err = f.state.User("2")
	assert.ErrorIs(t, err, common.ErrNotFound)

	assert.ErrorIs(t, f.svc.Users.Delete(ctx, admin(), "2"), common.ErrNotFound)
}

func TestUsers_UpdateProfileSyncsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	me, err := f.svc.Auth.Login(ctx, "staff", "staff123")
	require.NoError(t, err)

	got, err := f.svc.Users.UpdateProfile(ctx, me, "Siti Aminah", "siti")
	require.NoError(t, err)
	assert.Equal(t, "siti", got.Username)

	stored, err := f.state.User(me.ID)
	require.NoError(t, err)
	assert.Equal(t, "Siti Aminah", stored.FullName)
	assert.Equal(t, "staff123", stored.Password, "password untouched")

	sess, ok := f.svc.Auth.Current()
	require.True(t, ok)
	assert.Equal(t, "siti", sess.Username)
	assert.Empty(t, sess.Password)

	_, err = f.svc.Users.UpdateProfile(ctx, me, "x", "admin")
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)

	_, err = f.svc.Users.UpdateProfile(ctx, me, "x", "  ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUsers_AppTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, "ARSUDI", f.svc.Users.AppTitle())
	require.NoError(t, f.svc.Users.SetAppTitle(ctx, admin(), "  Arsip Dinas "))
	assert.Equal(t, "Arsip Dinas", f.svc.Users.AppTitle())
	assert.ErrorIs(t, f.svc.Users.SetAppTitle(ctx, admin(), ""), common.ErrValidation)
}
