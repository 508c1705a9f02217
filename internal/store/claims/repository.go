// Package claims persists claim requests in the remote document store.
package claims

import (
	"context"

	"github.com/resiembra/resiembra/internal/models"
)

type Repository interface {
	// Create inserts a new claim request.
	Create(ctx context.Context, c *models.ClaimRequest) error

	// GetByID returns a claim request or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.ClaimRequest, error)

	// SetStatus transitions a request from one status to another. It returns
	// common.ErrClaimAlreadyDecided when the request is no longer in the
	// expected source status, making terminal transitions race-safe.
	SetStatus(ctx context.Context, id string, from, to models.ClaimStatus) error

	// SetCampaignIDs persists a re-derived campaign association on a legacy
	// request.
	SetCampaignIDs(ctx context.Context, id string, campaignIDs []string) error

	// ListByStatus returns all requests in the given status.
	ListByStatus(ctx context.Context, status models.ClaimStatus) ([]models.ClaimRequest, error)
}
