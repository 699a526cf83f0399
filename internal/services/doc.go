// Package services implements the archive's use cases on top of app.State.
//
// LetterService records, edits and summarises letters; AuthService runs the
// login gate and the persisted session; UserService manages accounts and
// the application title; ArchiveService produces CSV exports and JSON
// backups and restores them. Services bundles all four so the REPL, the
// HTTP API and the one-shot commands share one wiring.
//
// Role checks live here rather than in the front ends. Every mutating call
// takes the acting user explicitly; errors are the sentinels from
// internal/common and are matched with errors.Is.
package services
