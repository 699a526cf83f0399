package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL-level output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool

	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	List(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Summarize(ctx context.Context, args []string) error
	Extract(ctx context.Context, args []string) error
	Stats(ctx context.Context, args []string) error

	Export(ctx context.Context, args []string) error
	Backup(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
	Storage(ctx context.Context, args []string) error

	Users(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	DeleteUser(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Title(ctx context.Context, args []string) error
}

const (
	helpGuest = "Available commands: login, help, exit"
	helpUser  = "Available commands: (l)ist, filter, reset, show <id>, add, summarize <id>, extract <file>, " +
		"stats, export, profile, title, logout, exit"
	helpAdmin = helpUser + "\nAdmin commands: edit <id>, delete <id>, backup [upload], restore <file>, storage, " +
		"users, adduser, deluser <id>, passwd <id>, title <new title>"
)

type command func(ctx context.Context, args []string) error

func commands(a execIface) map[string]command {
	return map[string]command{
		"logout":    a.Logout,
		"l":         a.List,
		"list":      a.List,
		"filter":    a.Filter,
		"reset":     a.Reset,
		"show":      a.Show,
		"add":       a.Add,
		"edit":      a.Edit,
		"delete":    a.Delete,
		"summarize": a.Summarize,
		"extract":   a.Extract,
		"stats":     a.Stats,
		"export":    a.Export,
		"backup":    a.Backup,
		"restore":   a.Restore,
		"storage":   a.Storage,
		"users":     a.Users,
		"adduser":   a.AddUser,
		"deluser":   a.DeleteUser,
		"passwd":    a.Passwd,
		"profile":   a.Profile,
		"title":     a.Title,
	}
}

// runREPL reads commands line by line from reader and dispatches them to a
// until EOF, "exit" or "quit". Everything except help, login and exit
// needs a session. Command errors are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	table := commands(a)

	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("arsip%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn(helpAdmin)
			case a.isLoggedIn():
				printlnFn(helpUser)
			default:
				printlnFn(helpGuest)
			}
			continue

		case "login":
			if err := a.Login(ctx, args); err != nil {
				printlnFn("Login unsuccessful:", err)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		fn, ok := table[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		if !a.isLoggedIn() {
			printlnFn("Please login first")
			continue
		}
		if err := fn(ctx, args); err != nil {
			printlnFn("Error:", err)
		}
	}
}
