package cli

import (
	"context"
	"fmt"

	"github.com/resiembra/resiembra/internal/models"
)

func printRecords(records []models.SowingRecord) {
	if len(records) == 0 {
		fmt.Println("No records.")
		return
	}
	for _, r := range records {
		photo := "-"
		switch {
		case r.PhotoURL != nil:
			photo = *r.PhotoURL
		case r.Photo != nil:
			photo = "(inline, pending migration)"
		}
		fmt.Printf("%s  %s  holes=%d  campaign=%s  synced=%t  photo=%s\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04"), r.HoleCount, r.CampaignID, r.Synced, photo)
	}
}

// List shows the acting user's records.
func (a *App) List(ctx context.Context) error {
	records, err := a.sowing.ListMine(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printRecords(records)
	return nil
}

// Orphans shows ownerless records available for claiming.
func (a *App) Orphans(ctx context.Context) error {
	records, err := a.sowing.ListOrphans(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printRecords(records)
	return nil
}

// Pending shows the queued-write count.
func (a *App) Pending(ctx context.Context) error {
	n, err := a.sowing.Pending(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("%d queued write(s) awaiting sync\n", n)
	return nil
}
