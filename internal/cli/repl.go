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
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Queue(ctx context.Context) error
	List(ctx context.Context) error
	Sync(ctx context.Context) error
	Retry(ctx context.Context, localID string) error
	Status(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Adventure Log sync CLI.
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
//	  - login          — store an access token
//	  - status         — show connectivity
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - queue          — stage a new album upload
//	  - list       	   — list queued uploads
//	  - sync           — drain the pending queue now
//	  - retry <id>     — move a failed upload back to pending
//	  - status         — show connectivity
//	  - logout         — drop the stored token
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("advlog> %s > ", statusFn()))
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
				printlnFn("Available commands: queue, (l)ist, sync, retry <id>, status, logout, exit")
			} else {
				printlnFn("Available commands: login, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "queue":
			_ = a.Queue(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "retry":
			if len(args) == 0 {
				printlnFn("Usage: retry <id>")
				continue
			}
			_ = a.Retry(ctx, args[0])

		case "status":
			_ = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
