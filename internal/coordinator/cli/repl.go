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
type execIface interface {
	List(ctx context.Context) error
	Approve(ctx context.Context) error
	Reject(ctx context.Context) error
	Resync(ctx context.Context) error
	Watch(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on scanner EOF or when the
// user types "exit" or "quit".
//
// Commands:
//
//	help          — show available commands
//	list          — list pending claim requests
//	approve       — approve a claim (interactive ID prompt)
//	reject        — reject a claim (interactive ID prompt)
//	resync        — re-derive campaigns on approved legacy claims
//	watch         — follow the pending queue until Enter is pressed
//	exit | quit   — leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("resiembra-admin %s> ", statusFn()))
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
			printlnFn("Available commands: (l)ist, approve, reject, resync, watch, exit")

		case "l", "list":
			_ = a.List(ctx)

		case "approve":
			_ = a.Approve(ctx)

		case "reject":
			_ = a.Reject(ctx)

		case "resync":
			_ = a.Resync(ctx)

		case "watch":
			_ = a.Watch(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
