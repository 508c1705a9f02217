// Package campaigns persists campaigns and their participant sets.
package campaigns

import (
	"context"

	"github.com/resiembra/resiembra/internal/models"
)

type Repository interface {
	// GetByID returns a campaign with its participant set, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Campaign, error)

	// AddParticipant adds a user to a campaign's participant set. Adding an
	// already-present participant is a no-op (set semantics).
	AddParticipant(ctx context.Context, campaignID, userID string) error

	// Participants returns the participant set of a campaign.
	Participants(ctx context.Context, campaignID string) ([]string, error)
}
