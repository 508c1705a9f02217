package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/resiembra/resiembra/internal/common"
)

// Sync triggers a queue drain without waiting for a reconnect event.
func (a *App) Sync(ctx context.Context) error {
	err := a.engine.DrainQueue(ctx)
	if err != nil {
		if errors.Is(err, common.ErrOffline) {
			fmt.Println("Still offline, queued writes kept for the next reconnect.")
		} else {
			fmt.Println("Error:", err)
		}
		return err
	}

	n, err := a.sowing.Pending(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Sync done, %d item(s) still queued.\n", n)
	return nil
}
