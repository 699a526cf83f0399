package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/arsip/internal/dbx"
)

type queries struct {
	get, set, del, list, clear string
}

var dialectQueries = map[dbx.Dialect]queries{
	dbx.SQLite: {
		get: `SELECT store_value FROM kv_store WHERE store_key = ?`,
		set: `INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)
			ON CONFLICT(store_key) DO UPDATE SET store_value = excluded.store_value`,
		del: `DELETE FROM kv_store WHERE store_key = ?`,
	},
	dbx.Postgres: {
		get: `SELECT store_value FROM kv_store WHERE store_key = $1`,
		set: `INSERT INTO kv_store (store_key, store_value) VALUES ($1, $2)
			ON CONFLICT (store_key) DO UPDATE SET store_value = EXCLUDED.store_value`,
		del: `DELETE FROM kv_store WHERE store_key = $1`,
	},
	dbx.MySQL: {
		get: `SELECT store_value FROM kv_store WHERE store_key = ?`,
		set: `INSERT INTO kv_store (store_key, store_value) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE store_value = VALUES(store_value)`,
		del: `DELETE FROM kv_store WHERE store_key = ?`,
	},
}

func init() {
	for d, q := range dialectQueries {
		q.list = `SELECT store_key, store_value FROM kv_store`
		q.clear = `DELETE FROM kv_store`
		dialectQueries[d] = q
	}
}

// SQLRepository keeps key/value pairs in the kv_store table created by the
// migrations in internal/db.
type SQLRepository struct {
	db dbx.DBTX
	q  queries
}

// NewSQLRepository returns a repository speaking the given dialect over db,
// which may be a *sql.DB or a *sql.Tx.
func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) (*SQLRepository, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("kv: unsupported dialect %q", dialect)
	}
	return &SQLRepository{db: db, q: q}, nil
}

// NewSQLiteRepository returns a SQLRepository using SQLite syntax.
func NewSQLiteRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: dialectQueries[dbx.SQLite]}
}

// NewPostgresRepository returns a SQLRepository using PostgreSQL syntax.
func NewPostgresRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: dialectQueries[dbx.Postgres]}
}

// NewMySQLRepository returns a SQLRepository using MySQL syntax.
func NewMySQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db, q: dialectQueries[dbx.MySQL]}
}

// WithTx returns a copy of r bound to tx.
func (r *SQLRepository) WithTx(tx dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: tx, q: r.q}
}

func (r *SQLRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLRepository) Set(ctx context.Context, key, value string) error {
	if _, err := r.db.ExecContext(ctx, r.q.set, key, value); err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.q.del, key); err != nil {
		return fmt.Errorf("kv delete %s: %w", key, err)
	}
	return nil
}

func (r *SQLRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, r.q.clear); err != nil {
		return fmt.Errorf("kv clear: %w", err)
	}
	return nil
}

func (r *SQLRepository) List(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, r.q.list)
	if err != nil {
		return nil, fmt.Errorf("kv list: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("kv scan: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("kv rows: %w", err)
	}
	return out, nil
}
