package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/models"
)

func printClaims(claims []models.ClaimRequest) {
	if len(claims) == 0 {
		fmt.Println("No pending claims.")
		return
	}
	for _, c := range claims {
		fmt.Printf("%s  %s  user=%s  records=%d  campaigns=%s\n",
			c.ID, c.CreatedAt.Format("2006-01-02 15:04"), c.UserID, len(c.LogIDs),
			strings.Join(c.CampaignIDs, ","))
	}
}

// List shows all claim requests awaiting review.
func (a *App) List(ctx context.Context) error {
	claims, err := a.claims.ListPending(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	printClaims(claims)
	return nil
}

func (a *App) review(ctx context.Context, decision models.ClaimStatus) error {
	id, err := readLine(a.reader, fmt.Sprintf("Claim ID to %s", decision), os.Stdout)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("No claim ID given.")
		return common.ErrorNotFound
	}

	err = a.claims.Review(ctx, a.config.AdminID, id, decision)
	switch {
	case errors.Is(err, common.ErrNotAdmin):
		fmt.Println("Your user is not an administrator.")
	case errors.Is(err, common.ErrClaimAlreadyDecided):
		fmt.Println("That claim was already decided.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Println("No such claim.")
	case err != nil:
		fmt.Println("Error:", err)
	default:
		fmt.Printf("Claim %s %s.\n", id, decision)
	}
	return err
}

// Approve decides a pending claim in the requester's favor: ownership and
// campaign membership are applied atomically.
func (a *App) Approve(ctx context.Context) error {
	return a.review(ctx, models.ClaimApproved)
}

// Reject declines a pending claim; records stay orphaned.
func (a *App) Reject(ctx context.Context) error {
	return a.review(ctx, models.ClaimRejected)
}

// Resync runs the approved-claims maintenance sweep.
func (a *App) Resync(ctx context.Context) error {
	fixed, err := a.claims.ResyncApprovedClaims(ctx)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}
	fmt.Printf("Resync done, %d claim(s) fixed up.\n", fixed)
	return nil
}
