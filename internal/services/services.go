package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/arsip/internal/ai"
	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/common"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/models"
)

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func requireUser(actor models.User) error {
	if actor.ID == "" {
		return common.ErrUnauthorized
	}
	return nil
}

func requireAdmin(actor models.User) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}

// System is the actor used by local maintenance commands (export, backup,
// restore) that run with direct access to the database.
var System = models.User{ID: "system", Username: "system", Role: models.RoleAdmin, FullName: "System"}

// Services bundles every service over one app.State.
type Services struct {
	Auth    *AuthService
	Letters *LetterService
	Users   *UserService
	Archive *ArchiveService
}

// Options tunes the services. Zero values disable the artificial delays
// and select the naive CSV format.
type Options struct {
	SubmitDelay time.Duration
	LoginDelay  time.Duration
	StrictCSV   bool
}

// New wires all services. uploader may be nil.
func New(state *app.State, client ai.Client, uploader Uploader, opts Options, log logging.Logger) *Services {
	return &Services{
		Auth:    NewAuthService(state, opts.LoginDelay, log),
		Letters: NewLetterService(state, client, opts.SubmitDelay, log),
		Users:   NewUserService(state, log),
		Archive: NewArchiveService(state, uploader, opts.StrictCSV, log),
	}
}
