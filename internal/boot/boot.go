// Package boot wires configuration, storage, the AI client and the services
// into one ready-to-run environment shared by every entry point.
package boot

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/arsip/internal/ai"
	"github.com/dmitrijs2005/arsip/internal/app"
	"github.com/dmitrijs2005/arsip/internal/backup"
	"github.com/dmitrijs2005/arsip/internal/config"
	"github.com/dmitrijs2005/arsip/internal/db"
	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/services"
	"github.com/dmitrijs2005/arsip/internal/store"
)

// Env is a fully wired archive, ready for one of the front ends.
type Env struct {
	Config   *config.Config
	Logger   logging.Logger
	DB       *db.Database
	Services *services.Services
}

// Open connects to the configured database, loads the archive state and
// builds the services. Logs go to logOut.
func Open(ctx context.Context, cfg *config.Config, logOut io.Writer) (*Env, error) {
	logger := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	st := store.New(database.KV, logger).WithTxRunner(database.WithTx)
	state, err := app.Load(ctx, st, logger)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("load archive: %w", err)
	}

	client := ai.New(cfg.AIAPIKey, logger, ai.WithBaseURL(cfg.AIBaseURL), ai.WithModel(cfg.AIModel))

	var uploader services.Uploader
	if cfg.S3Enabled() {
		uploader = backup.NewS3Uploader(cfg, logger)
	}

	svc := services.New(state, client, uploader, services.Options{
		SubmitDelay: cfg.SubmitDelay,
		LoginDelay:  cfg.LoginDelay,
		StrictCSV:   cfg.StrictCSV,
	}, logger)

	logger.Debug(ctx, "environment ready",
		"driver", cfg.DBDriver,
		"ai", client.Enabled(),
		"s3", cfg.S3Enabled(),
	)

	return &Env{Config: cfg, Logger: logger, DB: database, Services: svc}, nil
}

// Close releases the database connection.
func (e *Env) Close() error {
	return e.DB.Close()
}
