// Package services implements the coordinator-side workflows over the
// remote store: claim reconciliation and its maintenance sweeps.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/notify"
	"github.com/resiembra/resiembra/internal/store/repomanager"
)

// ClaimService runs the claim reconciliation workflow: users bundle orphan
// records into a claim request, an administrator approves or rejects it, and
// approval mutates records and campaign participant sets as one atomic unit.
type ClaimService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	notifier notify.Notifier
	logger   logging.Logger
}

func NewClaimService(db *sql.DB, repos repomanager.RepositoryManager, notifier notify.Notifier, logger logging.Logger) *ClaimService {
	return &ClaimService{db: db, repos: repos, notifier: notifier, logger: logger}
}

// deriveCampaignIDs looks up every record and returns the distinct campaign
// IDs they reference, in order of first appearance.
func (s *ClaimService) deriveCampaignIDs(ctx context.Context, db dbx.DBTX, logIDs []string) ([]string, error) {
	recordRepo := s.repos.Records(db)

	seen := make(map[string]struct{}, len(logIDs))
	result := make([]string, 0, len(logIDs))

	for _, id := range logIDs {
		rec, err := recordRepo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", id, err)
		}
		if rec.CampaignID == "" {
			continue
		}
		if _, ok := seen[rec.CampaignID]; ok {
			continue
		}
		seen[rec.CampaignID] = struct{}{}
		result = append(result, rec.CampaignID)
	}

	return result, nil
}

// Submit creates a pending claim request for the given orphan records.
// The campaign association is derived from the records at submit time.
func (s *ClaimService) Submit(ctx context.Context, userID string, logIDs []string) (*models.ClaimRequest, error) {
	if len(logIDs) == 0 {
		return nil, common.ErrEmptyClaim
	}

	campaignIDs, err := s.deriveCampaignIDs(ctx, s.db, logIDs)
	if err != nil {
		return nil, fmt.Errorf("deriving campaigns: %w", err)
	}

	req := &models.ClaimRequest{
		ID:          uuid.NewString(),
		UserID:      userID,
		LogIDs:      logIDs,
		CampaignIDs: campaignIDs,
		Status:      models.ClaimPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repos.Claims(s.db).Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "claim submitted", "claim", req.ID, "user", userID, "records", len(logIDs))
	return req, nil
}

// Review decides a pending claim request. Only administrators may review.
//
// Approval sets ownerId on every claimed record, adds the requesting user to
// every associated campaign's participant set and flips the request status —
// all inside one transaction, so partial application is impossible.
// Rejection only flips the status. Either way the requesting user gets a
// best-effort notification that never affects the decision's outcome.
func (s *ClaimService) Review(ctx context.Context, reviewerID, requestID string, decision models.ClaimStatus) error {
	if decision != models.ClaimApproved && decision != models.ClaimRejected {
		return fmt.Errorf("invalid decision %q", decision)
	}

	reviewer, err := s.repos.Users(s.db).GetByID(ctx, reviewerID)
	if err != nil {
		return fmt.Errorf("reviewer %s: %w", reviewerID, err)
	}
	if !reviewer.Admin {
		return common.ErrNotAdmin
	}

	req, err := s.repos.Claims(s.db).GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.Decided() {
		return common.ErrClaimAlreadyDecided
	}

	if decision == models.ClaimRejected {
		if err := s.repos.Claims(s.db).SetStatus(ctx, requestID, models.ClaimPending, models.ClaimRejected); err != nil {
			return err
		}
		s.logger.Info(ctx, "claim rejected", "claim", requestID, "reviewer", reviewerID)
		s.notifyOutcome(ctx, req.UserID, "Claim rejected",
			fmt.Sprintf("Your claim for %d records was rejected.", len(req.LogIDs)))
		return nil
	}

	campaignIDs := req.CampaignIDs
	rederived := false
	if len(campaignIDs) == 0 {
		// Legacy requests predate campaign tracking; derive it now.
		campaignIDs, err = s.deriveCampaignIDs(ctx, s.db, req.LogIDs)
		if err != nil {
			return fmt.Errorf("deriving campaigns: %w", err)
		}
		rederived = true
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recordRepo := s.repos.Records(tx)
		for _, logID := range req.LogIDs {
			if err := recordRepo.SetOwner(ctx, logID, req.UserID); err != nil {
				return err
			}
		}

		campaignRepo := s.repos.Campaigns(tx)
		for _, campaignID := range campaignIDs {
			if err := campaignRepo.AddParticipant(ctx, campaignID, req.UserID); err != nil {
				return err
			}
		}

		claimRepo := s.repos.Claims(tx)
		if rederived {
			if err := claimRepo.SetCampaignIDs(ctx, requestID, campaignIDs); err != nil {
				return err
			}
		}
		return claimRepo.SetStatus(ctx, requestID, models.ClaimPending, models.ClaimApproved)
	})
	if err != nil {
		return fmt.Errorf("approving claim %s: %w", requestID, err)
	}

	s.logger.Info(ctx, "claim approved", "claim", requestID, "reviewer", reviewerID,
		"records", len(req.LogIDs), "campaigns", len(campaignIDs))
	s.notifyOutcome(ctx, req.UserID, "Claim approved",
		fmt.Sprintf("You now own %d records.", len(req.LogIDs)))
	return nil
}

// notifyOutcome dispatches a best-effort notification to the requesting
// user. Missing tokens and delivery failures are logged, never returned.
func (s *ClaimService) notifyOutcome(ctx context.Context, userID, title, body string) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn(ctx, "notification skipped: user lookup failed", "user", userID, "error", err.Error())
		return
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return
	}
	if err := s.notifier.Send(ctx, *user.PushToken, title, body); err != nil {
		s.logger.Warn(ctx, "notification dispatch failed", "user", userID, "error", err.Error())
	}
}

// ListPending returns all claim requests awaiting review.
func (s *ClaimService) ListPending(ctx context.Context) ([]models.ClaimRequest, error) {
	return s.repos.Claims(s.db).ListByStatus(ctx, models.ClaimPending)
}

// ResyncApprovedClaims re-derives the campaign association of approved
// legacy requests (those with an empty campaignIds list) and re-adds the
// requesting user to the participant sets. Participant adds are set
// semantics, so running the sweep repeatedly is harmless. Returns the
// number of requests fixed up.
func (s *ClaimService) ResyncApprovedClaims(ctx context.Context) (int, error) {
	approved, err := s.repos.Claims(s.db).ListByStatus(ctx, models.ClaimApproved)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, req := range approved {
		if len(req.CampaignIDs) != 0 {
			continue
		}

		campaignIDs, err := s.deriveCampaignIDs(ctx, s.db, req.LogIDs)
		if err != nil {
			s.logger.Error(ctx, "resync: campaign derivation failed", "claim", req.ID, "error", err.Error())
			continue
		}
		if len(campaignIDs) == 0 {
			continue
		}

		err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			campaignRepo := s.repos.Campaigns(tx)
			for _, campaignID := range campaignIDs {
				if err := campaignRepo.AddParticipant(ctx, campaignID, req.UserID); err != nil {
					return err
				}
			}
			return s.repos.Claims(tx).SetCampaignIDs(ctx, req.ID, campaignIDs)
		})
		if err != nil {
			s.logger.Error(ctx, "resync: fixup failed", "claim", req.ID, "error", err.Error())
			continue
		}
		fixed++
	}

	s.logger.Info(ctx, "approved claims resynced", "checked", len(approved), "fixed", fixed)
	return fixed, nil
}
