// Package db opens the archive database and applies its schema.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"sync"

	"github.com/dmitrijs2005/arsip/internal/dbx"
	"github.com/dmitrijs2005/arsip/internal/repositories/kv"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

// goose keeps its base FS and dialect in package globals.
var gooseMu sync.Mutex

// Database bundles the connection with the key/value repository built on it.
type Database struct {
	Conn    *sql.DB
	Dialect dbx.Dialect
	KV      *kv.SQLRepository
}

// Open connects using the named driver (sqlite, postgres or mysql), runs
// pending migrations and returns the ready-to-use Database.
func Open(ctx context.Context, driver, dsn string) (*Database, error) {
	dialect, err := dbx.ParseDialect(driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if dialect == dbx.SQLite {
		// a single writer avoids SQLITE_BUSY between pooled connections
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := RunMigrations(ctx, conn, dialect); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	repo, err := kv.NewSQLRepository(conn, dialect)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Database{Conn: conn, Dialect: dialect, KV: repo}, nil
}

// RunMigrations applies the embedded migrations for dialect. It is safe to
// call on an already migrated database.
func RunMigrations(ctx context.Context, conn *sql.DB, dialect dbx.Dialect) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(string(dialect)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return goose.UpContext(ctx, conn, path.Join("migrations", string(dialect)))
}

// WithTx runs fn in a transaction, handing it a kv repository bound to that
// transaction.
func (d *Database) WithTx(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error {
	return dbx.WithTx(ctx, d.Conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, d.KV.WithTx(tx))
	})
}

// Close closes the connection pool.
func (d *Database) Close() error {
	return d.Conn.Close()
}
