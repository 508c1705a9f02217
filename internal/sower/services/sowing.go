// Package services implements the sower-side workflow: logging planting
// events with an online fast path and an offline durable-queue fallback.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resiembra/resiembra/internal/blob"
	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/netx"
	"github.com/resiembra/resiembra/internal/sower/queue"
	"github.com/resiembra/resiembra/internal/store/records"
)

// SowingInput is one planting event as entered by the user. Photo is the
// inline base64 payload (possibly data-URL prefixed) and may be empty.
type SowingInput struct {
	SpeciesID    string
	TeamID       string
	CampaignID   string
	Location     *models.Location
	HoleCount    int
	SeedsPerHole int
	Notes        string
	Photo        string
}

// SowingService creates sowing records. When the blob store is reachable the
// photo is uploaded inline with the record; when it is not, the photo write
// is parked in the durable queue and the record is created without it, to be
// completed by the sync engine after reconnect.
type SowingService struct {
	records records.Repository
	blobs   blob.Store
	queue   queue.Repository
	logger  logging.Logger
	userID  string
}

func NewSowingService(records records.Repository, blobs blob.Store, q queue.Repository,
	logger logging.Logger, userID string) *SowingService {
	return &SowingService{records: records, blobs: blobs, queue: q, logger: logger, userID: userID}
}

// Record logs a planting event and returns the created record.
func (s *SowingService) Record(ctx context.Context, in *SowingInput) (*models.SowingRecord, error) {
	if in.HoleCount < 1 {
		return nil, fmt.Errorf("hole count must be positive, got %d", in.HoleCount)
	}

	rec := &models.SowingRecord{
		ID:           uuid.NewString(),
		SpeciesID:    in.SpeciesID,
		TeamID:       in.TeamID,
		CampaignID:   in.CampaignID,
		Location:     in.Location,
		HoleCount:    in.HoleCount,
		SeedsPerHole: in.SeedsPerHole,
		Notes:        in.Notes,
		CreatedAt:    time.Now().UTC(),
	}
	if s.userID != "" {
		rec.OwnerID = &s.userID
	}

	if in.Photo == "" {
		rec.Synced = true
		if err := s.records.Create(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}

	data, err := models.DecodeInlinePhoto(in.Photo)
	if err != nil {
		return nil, err
	}

	url, err := s.blobs.Upload(ctx, common.PhotoKey(rec.ID), data)
	if err == nil {
		rec.PhotoURL = &url
		rec.Synced = true
		if err := s.records.Create(ctx, rec); err != nil {
			return nil, err
		}
		return rec, nil
	}
	if !netx.IsConnectivityError(err) {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}

	// Offline: park the photo write in the durable queue, create the record
	// without it. The sync engine completes the write after reconnect.
	item := &models.QueueItem{
		ID:           rec.ID,
		Payload:      in.Photo,
		BlobTarget:   common.PhotoKey(rec.ID),
		RecordTarget: common.RecordPath(rec.ID),
		EnqueuedAt:   time.Now().UTC(),
	}
	if err := s.queue.Enqueue(ctx, item); err != nil {
		return nil, fmt.Errorf("queueing photo write: %w", err)
	}

	if err := s.records.Create(ctx, rec); err != nil {
		// The record write needs the remote store too; take the queued photo
		// back out so a later retry starts from scratch.
		if rmErr := s.queue.Remove(ctx, item.ID); rmErr != nil {
			s.logger.Warn(ctx, "failed to unqueue after create failure",
				"item", item.ID, "error", rmErr.Error())
		}
		return nil, err
	}

	s.logger.Info(ctx, "photo write queued", "record", rec.ID)
	return rec, nil
}

// ListMine returns the acting user's records.
func (s *SowingService) ListMine(ctx context.Context) ([]models.SowingRecord, error) {
	return s.records.ListByOwner(ctx, s.userID)
}

// ListOrphans returns ownerless records available for claiming.
func (s *SowingService) ListOrphans(ctx context.Context) ([]models.SowingRecord, error) {
	return s.records.ListOrphans(ctx)
}

// Pending returns the number of queued writes awaiting sync.
func (s *SowingService) Pending(ctx context.Context) (int, error) {
	return s.queue.Count(ctx)
}
