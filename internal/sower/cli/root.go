package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	mode := "offline"
	if a.monitor.Online() {
		mode = "online"
	}

	n, err := a.sowing.Pending(context.Background())
	if err != nil || n == 0 {
		return fmt.Sprintf("(%s)", mode)
	}
	return fmt.Sprintf("(%s, %d pending)", mode, n)
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the resiembra sower console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
