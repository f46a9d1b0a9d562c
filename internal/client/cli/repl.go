package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	RefreshSession(ctx context.Context) error
	EditProfile(ctx context.Context) error
	List(ctx context.Context) error
	Favorites(ctx context.Context) error
	ToggleFavorite(ctx context.Context, id string) error
	AddProperty(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Leazzy CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - list           — browse listings (works signed out)
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - list | l       — browse listings
//	  - fav <id>       — toggle a listing in the favorites
//	  - favs           — show saved listings
//	  - add            — run the add-property wizard
//	  - whoami         — show the session snapshot
//	  - refresh        — re-fetch the session from the server
//	  - profile        — edit name/phone
//	  - logout         — sign out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("leazzy %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, fav <id>, favs, add, whoami, refresh, profile, logout, exit")
			} else {
				printlnFn("Available commands: register, login, list, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "refresh":
			_ = a.RefreshSession(ctx)

		case "profile":
			_ = a.EditProfile(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "favs":
			_ = a.Favorites(ctx)

		case "fav":
			if len(args) == 0 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.ToggleFavorite(ctx, args[0])

		case "add":
			_ = a.AddProperty(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
