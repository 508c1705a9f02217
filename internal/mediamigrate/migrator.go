// Package mediamigrate converts legacy records with inline-encoded photos to
// blob-store references, and afterwards removes the redundant inline copy.
// Both passes are idempotent by selection and safe to re-run; per-item
// failures are counted, not fatal.
package mediamigrate

import (
	"context"
	"fmt"

	"github.com/resiembra/resiembra/internal/blob"
	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/logging"
	"github.com/resiembra/resiembra/internal/models"
	"github.com/resiembra/resiembra/internal/store/records"
)

// Progress reports per-item advancement to the invoking operator.
type Progress func(current, total int)

// Summary is the final report of one pass.
type Summary struct {
	Total     int
	Succeeded int
	Errors    int
	DryRun    bool
}

func (s Summary) String() string {
	mode := "real"
	if s.DryRun {
		mode = "dry-run"
	}
	return fmt.Sprintf("%s: %d total, %d succeeded, %d errors", mode, s.Total, s.Succeeded, s.Errors)
}

type Migrator struct {
	records records.Repository
	blobs   blob.Store
	logger  logging.Logger
}

func NewMigrator(records records.Repository, blobs blob.Store, logger logging.Logger) *Migrator {
	return &Migrator{records: records, blobs: blobs, logger: logger}
}

// Migrate uploads the inline photo of every record that has one but no blob
// reference yet, and sets photoUrl. Already-migrated records are excluded by
// selection, so re-running is a no-op for them. In dry-run mode the pass
// only reports what it would do.
func (m *Migrator) Migrate(ctx context.Context, dryRun bool, progress Progress) (*Summary, error) {
	selected, err := m.records.ListPendingMigration(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting records to migrate: %w", err)
	}

	summary := &Summary{Total: len(selected), DryRun: dryRun}

	for i, rec := range selected {
		if progress != nil {
			progress(i+1, summary.Total)
		}

		if dryRun {
			m.logger.Info(ctx, "would migrate", "record", rec.ID)
			summary.Succeeded++
			continue
		}

		if err := m.migrateOne(ctx, &rec); err != nil {
			m.logger.Error(ctx, "migrate failed", "record", rec.ID, "error", err.Error())
			summary.Errors++
			continue
		}
		summary.Succeeded++
	}

	m.logger.Info(ctx, "migrate pass finished", "summary", summary.String())
	return summary, nil
}

func (m *Migrator) migrateOne(ctx context.Context, rec *models.SowingRecord) error {
	if rec.Photo == nil || *rec.Photo == "" {
		return common.ErrPhotoMissingEverywhere
	}

	data, err := models.DecodeInlinePhoto(*rec.Photo)
	if err != nil {
		return err
	}

	url, err := m.blobs.Upload(ctx, common.PhotoKey(rec.ID), data)
	if err != nil {
		return err
	}

	return m.records.SetPhotoURL(ctx, rec.ID, url)
}

// Cleanup clears the inline photo of every record whose blob reference is
// already in place. Records without photoUrl are never selected — the only
// copy of a photo is never destroyed.
func (m *Migrator) Cleanup(ctx context.Context, dryRun bool, progress Progress) (*Summary, error) {
	selected, err := m.records.ListCleanable(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting records to clean: %w", err)
	}

	summary := &Summary{Total: len(selected), DryRun: dryRun}

	for i, rec := range selected {
		if progress != nil {
			progress(i+1, summary.Total)
		}

		if dryRun {
			m.logger.Info(ctx, "would clear inline photo", "record", rec.ID)
			summary.Succeeded++
			continue
		}

		if err := m.records.ClearPhoto(ctx, rec.ID); err != nil {
			m.logger.Error(ctx, "cleanup failed", "record", rec.ID, "error", err.Error())
			summary.Errors++
			continue
		}
		summary.Succeeded++
	}

	m.logger.Info(ctx, "cleanup pass finished", "summary", summary.String())
	return summary, nil
}
