// Package kv stores the archive's collections as string values under fixed
// keys.
//
// Repository is the storage contract the rest of the archive relies on.
// SQLRepository implements it over a single kv_store table for SQLite,
// PostgreSQL and MySQL, differing only in placeholder style and upsert
// syntax. MemoryRepository keeps values in a map for tests.
//
// Get reports a missing key through its boolean result, never as an error.
package kv
