package models

import "time"

// ClaimStatus is the lifecycle state of a claim request. Transitions are
// pending -> approved or pending -> rejected, both terminal.
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// ClaimRequest bundles orphan records a user wants to take ownership of.
// CampaignIDs is derived from the claimed records at submit time; legacy
// requests may carry an empty list and get it re-derived at review time.
type ClaimRequest struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	LogIDs      []string    `json:"logIds"`
	CampaignIDs []string    `json:"campaignIds"`
	Status      ClaimStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// Decided reports whether the request is in a terminal state.
func (c *ClaimRequest) Decided() bool {
	return c.Status == ClaimApproved || c.Status == ClaimRejected
}
