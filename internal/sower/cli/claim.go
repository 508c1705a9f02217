package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/resiembra/resiembra/internal/common"
)

// Claim submits a claim request for orphan records. The campaign association
// is derived server-side from the claimed records.
func (a *App) Claim(ctx context.Context) error {
	if a.config.UserID == "" {
		fmt.Println("Set a user ID (-o) before claiming records.")
		return common.ErrorNotFound
	}

	ids, err := GetIDList(a.reader, "Record IDs to claim (space or comma separated)", os.Stdout)
	if err != nil {
		return err
	}

	req, err := a.claims.Submit(ctx, a.config.UserID, ids)
	if err != nil {
		if errors.Is(err, common.ErrEmptyClaim) {
			fmt.Println("Nothing to claim.")
		} else {
			fmt.Println("Error:", err)
		}
		return err
	}

	fmt.Printf("Claim %s submitted for %d record(s), awaiting review.\n", req.ID, len(req.LogIDs))
	return nil
}
