// Package cli is the interactive terminal front end of the archive.
//
// App implements every REPL command on top of services.Services. The loop
// in repl.go reads one line at a time, looks the command up in a table and
// gates it on the session: guests may only log in, and user management,
// backup, restore and storage reports require an ADMIN session.
//
// A typical session:
//
//	arsip> login staff
//	arsip (staff USER)> filter type=MASUK from=2024-01-01
//	arsip (staff USER) [filtered]> list
//	arsip (staff USER) [filtered]> export
//
// Prompts go through the helpers in input.go. Passwords are read without
// echo when stdin is a terminal and as a plain line otherwise, so the
// REPL can be scripted. Output goes through printlnFn so tests can capture
// it.
package cli
