// Package records persists sowing records in the remote document store.
package records

import (
	"context"

	"github.com/resiembra/resiembra/internal/models"
)

// Repository describes the operations the sync engine, the claim workflow
// and the media migration passes need against sowing records.
type Repository interface {
	// Create inserts a new record. The ID is client-generated.
	Create(ctx context.Context, r *models.SowingRecord) error

	// GetByID returns a record or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.SowingRecord, error)

	// MarkSynced sets the resolved blob reference and the sync marker,
	// completing a queued write.
	MarkSynced(ctx context.Context, id, photoURL string) error

	// SetPhotoURL sets only the blob reference (media migration pass).
	SetPhotoURL(ctx context.Context, id, photoURL string) error

	// SetOwner assigns ownership of an orphan record.
	SetOwner(ctx context.Context, id, userID string) error

	// ClearPhoto removes the inline payload. It refuses to touch records
	// without a blob reference, so the only copy is never destroyed.
	ClearPhoto(ctx context.Context, id string) error

	// ListOrphans returns records with no owner.
	ListOrphans(ctx context.Context) ([]models.SowingRecord, error)

	// ListByOwner returns records owned by the given user.
	ListByOwner(ctx context.Context, userID string) ([]models.SowingRecord, error)

	// ListPendingMigration returns records with an inline photo and no blob
	// reference (migrate pass selection).
	ListPendingMigration(ctx context.Context) ([]models.SowingRecord, error)

	// ListCleanable returns records carrying both the inline photo and the
	// blob reference (cleanup pass selection).
	ListCleanable(ctx context.Context) ([]models.SowingRecord, error)
}
