// Package store persists whole collections as JSON snapshots under fixed
// keys of a kv.Repository. Reads never fail: a missing or unreadable value
// is reported as absent so callers can fall back to their defaults.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/arsip/internal/logging"
	"github.com/dmitrijs2005/arsip/internal/repositories/kv"
)

// Fixed store keys.
const (
	KeySessionUser = "auth_user"
	KeyLetters     = "letters_data"
	KeyUsers       = "app_users"
	KeyAppTitle    = "app_title"
)

// TxRunner runs fn inside a backend transaction, passing a repository bound
// to it. db.Database.WithTx has this shape.
type TxRunner func(ctx context.Context, fn func(ctx context.Context, repo kv.Repository) error) error

// Store is the persistent store adapter. Every Save rewrites the whole
// value under its key, so the last writer wins even when several processes
// share one database.
type Store struct {
	repo kv.Repository
	log  logging.Logger
	tx   TxRunner
}

// New returns a Store over repo. Writes go straight to repo until a
// TxRunner is set with WithTxRunner.
func New(repo kv.Repository, log logging.Logger) *Store {
	return &Store{
		repo: repo,
		log:  log.With("module", "store"),
	}
}

// WithTxRunner enables Atomic to use a real backend transaction.
func (s *Store) WithTxRunner(r TxRunner) *Store {
	s.tx = r
	return s
}

// Load reads key and decodes it into a T. ok is false when the key is absent
// or its value does not decode; decode and read errors are logged, not
// returned.
func Load[T any](ctx context.Context, s *Store, key string) (v T, ok bool) {
	raw, found := s.LoadRaw(ctx, key)
	if !found {
		return v, false
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn(ctx, "stored value is not valid JSON, using default", "key", key, "error", err)
		var zero T
		return zero, false
	}
	return v, true
}

// LoadRaw returns the stored string for key without decoding it.
func (s *Store) LoadRaw(ctx context.Context, key string) (string, bool) {
	raw, found, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "store read failed, using default", "key", key, "error", err)
		return "", false
	}
	return raw, found
}

// Save writes v as JSON under key, replacing whatever is stored there.
func (s *Store) Save(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store encode %s: %w", key, err)
	}
	return s.SaveRaw(ctx, key, string(b))
}

// SaveRaw writes value under key as is. Used for plain-string keys such as
// the app title.
func (s *Store) SaveRaw(ctx context.Context, key, value string) error {
	if err := s.repo.Set(ctx, key, value); err != nil {
		return err
	}
	s.log.Debug(ctx, "saved", "key", key, "bytes", len(value))
	return nil
}

// Clear removes key.
func (s *Store) Clear(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}

// Atomic runs fn against a Store whose writes share one transaction when a
// TxRunner is configured, and against s itself otherwise.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx *Store) error) error {
	if s.tx == nil {
		return fn(ctx, s)
	}
	return s.tx(ctx, func(ctx context.Context, repo kv.Repository) error {
		return fn(ctx, &Store{repo: repo, log: s.log})
	})
}
