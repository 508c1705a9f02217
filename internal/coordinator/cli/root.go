package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	if a.config.AdminID == "" {
		return "(no admin id)"
	}
	return fmt.Sprintf("(%s)", a.config.AdminID)
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the resiembra coordinator console (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
