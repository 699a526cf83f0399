package app

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
	"github.com/dmitrijs2005/arsip/internal/repositories/kv"
	"github.com/dmitrijs2005/arsip/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T) (*State, *kv.MemoryRepository) {
	t.Helper()
	repo := kv.NewMemoryRepository()
	s, err := Load(context.Background(), store.New(repo, logging.Discard()), logging.Discard())
	require.NoError(t, err)
	return s, repo
}

func letter(id string) models.Letter {
	return models.Letter{ID: id, Number: "N-" + id, Title: "T " + id, Type: models.LetterIncoming, Sender: "S", Date: "2024-01-01", Category: "Dinas", Tags: []string{"dinas", "umum"}}
}

func TestLoad_SeedsAndPersists(t *testing.T) {
	s, repo := newState(t)
	ctx := context.Background()

	assert.Len(t, s.Users(), 2)
	assert.Len(t, s.Letters(), len(models.DefaultLetters()))
	assert.Equal(t, DefaultAppTitle, s.AppTitle())
	_, ok := s.Session()
	assert.False(t, ok)

	_, ok, err := repo.Get(ctx, store.KeyUsers)
	require.NoError(t, err)
	assert.True(t, ok, "seed users are written back")
}

func TestLoad_CorruptFallsBackToSeeds(t *testing.T) {
	ctx := context.Background()
	repo := kv.NewMemoryRepository()
	require.NoError(t, repo.Set(ctx, store.KeyUsers, "garbage"))
	require.NoError(t, repo.Set(ctx, store.KeyLetters, "[]"))
	require.NoError(t, repo.Set(ctx, store.KeyAppTitle, "Arsip SMP 1"))
	require.NoError(t, repo.Set(ctx, store.KeySessionUser, `{"id":"2","username":"staff","role":"USER","fullName":"Staff Kearsipan"}`))

	s, err := Load(ctx, store.New(repo, logging.Discard()), logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, models.DefaultUsers(), s.Users())
	assert.Empty(t, s.Letters(), "an empty stored collection is kept")
	assert.Equal(t, "Arsip SMP 1", s.AppTitle())

	u, ok := s.Session()
	require.True(t, ok)
	assert.Equal(t, "staff", u.Username)
}

func TestLetters_CRUD(t *testing.T) {
	s, _ := newState(t)
	ctx := context.Background()
	n := len(s.Letters())

	require.NoError(t, s.AddLetter(ctx, letter("x1")))
	require.NoError(t, s.AddLetter(ctx, letter("x2")))

	ls := s.Letters()
	require.Len(t, ls, n+2)
	assert.Equal(t, "x2", ls[0].ID, "newest first")
	assert.Equal(t, "x1", ls[1].ID)

	err := s.AddLetter(ctx, letter("x1"))
	assert.ErrorIs(t, err, common.ErrDuplicateID)
	assert.ErrorIs(t, s.AddLetter(ctx, models.Letter{}), common.ErrValidation)

	upd := letter("x1")
	upd.AISummary = "ringkasan"
	require.NoError(t, s.UpdateLetter(ctx, upd))
	got, err := s.Letter("x1")
	require.NoError(t, err)
	assert.Equal(t, "ringkasan", got.AISummary)
	assert.Equal(t, "x1", s.Letters()[1].ID, "update keeps position")

	assert.ErrorIs(t, s.UpdateLetter(ctx, letter("nope")), common.ErrNotFound)

	require.NoError(t, s.DeleteLetter(ctx, "x2"))
	assert.ErrorIs(t, s.DeleteLetter(ctx, "x2"), common.ErrNotFound)
	_, err = s.Letter("x2")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Len(t, s.Letters(), n+1)
}

func TestLetters_ReturnsCopies(t *testing.T) {
	s, _ := newState(t)
	ctx := context.Background()
	require.NoError(t, s.AddLetter(ctx, letter("c1")))

	ls := s.Letters()
	ls[0].Title = "mutated"
	ls[0].Tags[0] = "mutated"

	got, err := s.Letter("c1")
	require.NoError(t, err)
	assert.Equal(t, "T c1", got.Title)
	assert.Equal(t, "dinas", got.Tags[0])
}

func TestLetters_PersistedAcrossReload(t *testing.T) {
	s, repo := newState(t)
	ctx := context.Background()
	require.NoError(t, s.AddLetter(ctx, letter("p1")))

	again, err := Load(ctx, store.New(repo, logging.Discard()), logging.Discard())
	require.NoError(t, err)
	got, err := again.Letter("p1")
	require.NoError(t, err)
	assert.Equal(t, "N-p1", got.Number)
}

func TestUsers_Mutations(t *testing.T) {
	s, _ := newState(t)
	ctx := context.Background()

	u := models.User{ID: "u3", Username: "tu", Password: "x", Role: models.RoleUser, FullName: "Tata Usaha"}
	require.NoError(t, s.AddUser(ctx, u))
	assert.Len(t, s.Users(), 3)

	dupID := u
	dupID.Username = "other"
	assert.ErrorIs(t, s.AddUser(ctx, dupID), common.ErrDuplicateID)

	dupName := u
	dupName.ID = "u4"
	assert.ErrorIs(t, s.AddUser(ctx, dupName), common.ErrDuplicateUsername)

	u.FullName = "Tata Usaha Sekolah"
	require.NoError(t, s.UpdateUser(ctx, u))
	got, err := s.User("u3")
	require.NoError(t, err)
	assert.Equal(t, "Tata Usaha Sekolah", got.FullName)

	clash := u
	clash.Username = "staff"
	assert.ErrorIs(t, s.UpdateUser(ctx, clash), common.ErrDuplicateUsername)
	assert.ErrorIs(t, s.UpdateUser(ctx, models.User{ID: "zz"}), common.ErrNotFound)

	require.NoError(t, s.DeleteUser(ctx, "u3"))
	assert.ErrorIs(t, s.DeleteUser(ctx, "u3"), common.ErrNotFound)
}

func TestDeleteUser_HasNoAdminGuard(t *testing.T) {
	s, _ := newState(t)
	require.NoError(t, s.DeleteUser(context.Background(), "1"))
	for _, u := range s.Users() {
		assert.NotEqual(t, "admin", u.Username)
	}
}

func TestSetUsers(t *testing.T) {
	s, _ := newState(t)
	ctx := context.Background()

	dup := []models.User{{ID: "1", Username: "a"}, {ID: "1", Username: "b"}}
	assert.ErrorIs(t, s.SetUsers(ctx, dup), common.ErrDuplicateID)

	require.NoError(t, s.SetUsers(ctx, []models.User{{ID: "1", Username: "a"}}))
	assert.Len(t, s.Users(), 1)
}

func TestSession(t *testing.T) {
	s, repo := newState(t)
	ctx := context.Background()

	admin := models.DefaultUsers()[0]
	require.NoError(t, s.SetSessionUser(ctx, &admin))

	u, ok := s.Session()
	require.True(t, ok)
	assert.Equal(t, "admin", u.Username)
	assert.Empty(t, u.Password)

	raw, ok, err := repo.Get(ctx, store.KeySessionUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, raw, "admin123")

	require.NoError(t, s.SetSessionUser(ctx, nil))
	_, ok = s.Session()
	assert.False(t, ok)
	_, ok, err = repo.Get(ctx, store.KeySessionUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppTitle(t *testing.T) {
	s, repo := newState(t)
	ctx := context.Background()

	require.NoError(t, s.SetAppTitle(ctx, "Arsip Digital"))
	assert.Equal(t, "Arsip Digital", s.AppTitle())

	raw, _, err := repo.Get(ctx, store.KeyAppTitle)
	require.NoError(t, err)
	assert.Equal(t, "Arsip Digital", raw, "stored as a plain string")
}

func TestReplaceAndRaw(t *testing.T) {
	s, _ := newState(t)
	ctx := context.Background()

	letters := []models.Letter{letter("r1")}
	users := []models.User{{ID: "1", Username: "admin", Password: "pw", Role: models.RoleAdmin}}
	require.NoError(t, s.Replace(ctx, letters, users, ""))

	assert.Len(t, s.Letters(), 1)
	assert.Len(t, s.Users(), 1)
	assert.Equal(t, DefaultAppTitle, s.AppTitle())

	rl, ru := s.RawCollections(ctx)
	assert.Contains(t, rl, `"id":"r1"`)
	assert.Contains(t, ru, `"username":"admin"`)

	bad := []models.User{{ID: "1", Username: "a"}, {ID: "2", Username: "a"}}
	assert.ErrorIs(t, s.Replace(ctx, nil, bad, "x"), common.ErrDuplicateUsername)

	n, err := s.StorageUsage(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)
}
