package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/arsip/internal/ai"
	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/query"
	"github.com/dmitrijs2005/arsip/internal/repositories/kv"
	"github.com/dmitrijs2005/arsip/internal/services"
	"github.com/dmitrijs2005/arsip/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	app *App
	svc *services.Services
	out *bytes.Buffer
	dir string
}

func newHarness(t *testing.T, input string) *harness {
	t.Helper()
	stubTerminal(t, false, nil, nil)

	state, err := app.Load(context.Background(), store.New(kv.NewMemoryRepository(), logging.Discard()), logging.Discard())
	require.NoError(t, err)
	svc := services.New(state, ai.Disabled{}, nil, services.Options{}, logging.Discard())

	h := &harness{svc: svc, out: &bytes.Buffer{}, dir: t.TempDir()}
	h.app = NewApp(svc, h.dir, strings.NewReader(input), h.out, logging.Discard())
	return h
}

func (h *harness) loginAs(t *testing.T, username, password string) {
	t.Helper()
	_, err := h.svc.Auth.Login(context.Background(), username, password)
	require.NoError(t, err)
}

func TestApp_LoginLogout(t *testing.T) {
	h := newHarness(t, "admin123\n")
	ctx := context.Background()

	require.NoError(t, h.app.Login(ctx, []string{"admin"}))
	assert.True(t, h.app.isAdmin())
	assert.Contains(t, h.out.String(), "Welcome, Administrator Utama")
	assert.Equal(t, " (admin ADMIN)", h.app.status())

	require.NoError(t, h.app.Logout(ctx, nil))
	assert.False(t, h.app.isLoggedIn())
	assert.Equal(t, "", h.app.status())
}

func TestApp_LoginPromptsForUsername(t *testing.T) {
	h := newHarness(t, "staff\nwrong\n")

	err := h.app.Login(context.Background(), nil)
	assert.Error(t, err)
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_ListFilterReset(t *testing.T) {
	h := newHarness(t, "")
	h.loginAs(t, "staff", "staff123")
	ctx := context.Background()

	require.NoError(t, h.app.List(ctx, nil))
	assert.Contains(t, h.out.String(), "seed00001")
	assert.Contains(t, h.out.String(), "2 letter(s)")

	h.out.Reset()
	require.NoError(t, h.app.Filter(ctx, []string{"type=keluar"}))
	assert.Contains(t, h.out.String(), "seed00002")
	assert.NotContains(t, h.out.String(), "seed00001")
	assert.Contains(t, h.app.status(), "[filtered]")

	assert.ErrorIs(t, h.app.Filter(ctx, []string{"nonsense"}), errUsage)
	assert.Error(t, h.app.Filter(ctx, []string{"colour=red"}))

	require.NoError(t, h.app.Reset(ctx, nil))
	assert.Equal(t, query.DefaultCriteria(), h.app.criteria)
}

func TestApp_Show(t *testing.T) {
	h := newHarness(t, "")
	h.loginAs(t, "staff", "staff123")

	require.NoError(t, h.app.Show(context.Background(), []string{"seed00001"}))
	assert.Contains(t, h.out.String(), "Undangan Rapat Koordinasi Kurikulum")
	assert.Contains(t, h.out.String(), "undangan, umum")

	assert.ErrorIs(t, h.app.Show(context.Background(), []string{"nope"}), common.ErrNotFound)
	assert.ErrorIs(t, h.app.Show(context.Background(), nil), errUsage)
}

func TestApp_Add(t *testing.T) {
	// attachment, type, number, title, sender, receiver, date, category,
	// education level, description, then content lines
	input := "\n\n001/T/2024\nSurat Tes\nPengirim Tes\n\n\n\n\n\nIsi surat\n\n"
	h := newHarness(t, input)
	h.loginAs(t, "staff", "staff123")

	require.NoError(t, h.app.Add(context.Background(), nil))

	letters := h.svc.Letters.List(query.DefaultCriteria())
	require.Len(t, letters, 3)
	l := letters[0]
	assert.Equal(t, "Surat Tes", l.Title)
	assert.Equal(t, "Isi surat", l.Content)
	assert.Equal(t, "Dinas", l.Category)
	assert.Equal(t, []string{"dinas", "umum"}, l.Tags)
	assert.Contains(t, h.out.String(), "Saved letter "+l.ID)
}

func TestApp_AddWithAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0o600))

	input := path + "\n\n002/T/2024\nDengan Lampiran\nPengirim\n\n\n\n\n\n\n"
	h := newHarness(t, input)
	h.loginAs(t, "staff", "staff123")

	require.NoError(t, h.app.Add(context.Background(), nil))
	l := h.svc.Letters.List(query.DefaultCriteria())[0]
	assert.True(t, strings.HasPrefix(l.Attachment, "data:image/png;base64,"))
}

func TestApp_Edit(t *testing.T) {
	// type, number, title, then keep everything else
	h := newHarness(t, "\n\nJudul Baru\n\n\n\n\n\n\n\n")
	h.loginAs(t, "admin", "admin123")

	require.NoError(t, h.app.Edit(context.Background(), []string{"seed00001"}))
	l, err := h.svc.Letters.Get("seed00001")
	require.NoError(t, err)
	assert.Equal(t, "Judul Baru", l.Title)
	assert.Equal(t, "001/UND/DISDIK/I/2024", l.Number)
	assert.Contains(t, l.Content, "rapat koordinasi kurikulum")
}

func TestApp_Delete(t *testing.T) {
	h := newHarness(t, "n\ny\n")
	h.loginAs(t, "admin", "admin123")
	ctx := context.Background()

	require.NoError(t, h.app.Delete(ctx, []string{"seed00001"}))
	assert.Contains(t, h.out.String(), "Cancelled")

	require.NoError(t, h.app.Delete(ctx, []string{"seed00001"}))
	_, err := h.svc.Letters.Get("seed00001")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestApp_Summarize_AIDisabled(t *testing.T) {
	h := newHarness(t, "")
	h.loginAs(t, "staff", "staff123")

	require.NoError(t, h.app.Summarize(context.Background(), []string{"seed00001"}))
	assert.Contains(t, h.out.String(), ai.SummaryError)
}

func TestApp_ExtractDisabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "surat.txt")
	require.NoError(t, os.WriteFile(path, []byte("Nomor: 1"), 0o600))

	h := newHarness(t, "")
	h.loginAs(t, "staff", "staff123")

	assert.ErrorIs(t, h.app.Extract(context.Background(), []string{path}), ai.ErrDisabled)
}

func TestApp_StatsAndExport(t *testing.T) {
	h := newHarness(t, "")
	h.loginAs(t, "staff", "staff123")
	ctx := context.Background()

	require.NoError(t, h.app.Stats(ctx, nil))
	assert.Contains(t, h.out.String(), "Total:")
	assert.Contains(t, h.out.String(), "Pemberitahuan")

	require.NoError(t, h.app.Export(ctx, nil))
	files, err := filepath.Glob(filepath.Join(h.dir, "Rekap_Arsip_Surat_*.csv"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Nomor Surat,"))
}

func TestApp_BackupRestoreStorage(t *testing.T) {
	h := newHarness(t, "y\n")
	ctx := context.Background()

	h.loginAs(t, "staff", "staff123")
	assert.ErrorIs(t, h.app.Backup(ctx, nil), common.ErrForbidden)
	assert.ErrorIs(t, h.app.Storage(ctx, nil), common.ErrForbidden)

	h.loginAs(t, "admin", "admin123")
	require.NoError(t, h.app.Backup(ctx, nil))
	files, err := filepath.Glob(filepath.Join(h.dir, "backup_arsip_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	require.NoError(t, h.svc.Letters.Delete(ctx, h.app.actor(), "seed00001"))
	require.NoError(t, h.app.Restore(ctx, []string{files[0]}))
	_, err = h.svc.Letters.Get("seed00001")
	assert.NoError(t, err)

	assert.ErrorIs(t, h.app.Backup(ctx, []string{"upload"}), common.ErrValidation)

	require.NoError(t, h.app.Storage(ctx, nil))
	assert.Contains(t, h.out.String(), " KB")
}

func TestApp_UserManagement(t *testing.T) {
	// adduser: username, full name, password, role; passwd; deluser confirm
	h := newHarness(t, "budi\nBudi Santoso\nrahasia\n\nbaru\ny\n")
	h.loginAs(t, "admin", "admin123")
	ctx := context.Background()

	require.NoError(t, h.app.AddUser(ctx, nil))
	users, err := h.svc.Users.List(h.app.actor())
	require.NoError(t, err)
	require.Len(t, users, 3)
	budi := users[2]
	assert.Equal(t, "budi", budi.Username)

	require.NoError(t, h.app.Passwd(ctx, []string{budi.ID}))
	_, err = h.svc.Auth.Authenticate(ctx, "budi", "baru")
	require.NoError(t, err)

	require.NoError(t, h.app.DeleteUser(ctx, []string{budi.ID}))
	h.out.Reset()
	require.NoError(t, h.app.Users(ctx, nil))
	assert.NotContains(t, h.out.String(), "Budi Santoso")
	assert.Contains(t, h.out.String(), "Administrator Utama")
}

func TestApp_ProfileAndTitle(t *testing.T) {
	h := newHarness(t, "Staf Arsip\n\n")
	h.loginAs(t, "staff", "staff123")
	ctx := context.Background()

	require.NoError(t, h.app.Profile(ctx, nil))
	me := h.app.actor()
	assert.Equal(t, "Staf Arsip", me.FullName)
	assert.Equal(t, "staff", me.Username)

	require.NoError(t, h.app.Title(ctx, nil))
	assert.Contains(t, h.out.String(), "ARSUDI")
	assert.ErrorIs(t, h.app.Title(ctx, []string{"Baru"}), common.ErrForbidden)

	h.loginAs(t, "admin", "admin123")
	require.NoError(t, h.app.Title(ctx, []string{"Arsip", "Dinas"}))
	assert.Equal(t, "Arsip Dinas", h.svc.Users.AppTitle())
}
