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
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	Sow(ctx context.Context) error
	List(ctx context.Context) error
	Orphans(ctx context.Context) error
	Claim(ctx context.Context) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Commands:
//
//	help          — show available commands
//	sow           — log a planting event (interactive prompts)
//	list          — list your records
//	orphans       — list ownerless records available for claiming
//	claim         — submit a claim for orphan records
//	pending       — show the queued-write count
//	sync          — trigger a queue drain now
//	exit | quit   — leave the program
//
// Errors returned by command handlers are printed by the handlers themselves;
// the loop only keeps reading.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("resiembra %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: sow, (l)ist, orphans, claim, pending, sync, exit")

		case "sow":
			_ = a.Sow(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "orphans":
			_ = a.Orphans(ctx)

		case "claim":
			_ = a.Claim(ctx)

		case "pending":
			_ = a.Pending(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
