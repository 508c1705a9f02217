package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/store/watch"
)

// readLine reads one trimmed line after printing a prompt.
func readLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Watch follows the pending-claims queue, reprinting it whenever it changes,
// until the user presses Enter.
func (a *App) Watch(ctx context.Context) error {
	fmt.Println("Watching pending claims (press Enter to stop)...")

	handle := watch.Subscribe(ctx, a.config.WatchInterval,
		func(ctx context.Context) ([]models.ClaimRequest, error) {
			return a.claims.ListPending(ctx)
		},
		func(snapshot []models.ClaimRequest) {
			fmt.Printf("--- %d pending claim(s) ---\n", len(snapshot))
			printClaims(snapshot)
		},
		func(err error) {
			a.logger.Warn(ctx, "pending claims fetch failed", "error", err.Error())
		})

	_, _ = a.reader.ReadString('\n')
	handle.Stop()
	return nil
}
