package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/models"
)

const recordColumns = `id, species_id, team_id, campaign_id, lat, lng, acc,
	hole_count, seeds_per_hole, notes, photo, photo_url, owner_id, synced, created_at`

// PostgresRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx), so it can take part in multi-document transactions.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.SowingRecord) error {
	var lat, lng, acc *float64
	if rec.Location != nil {
		lat, lng, acc = &rec.Location.Lat, &rec.Location.Lng, &rec.Location.Acc
	}

	query := `INSERT INTO sowing_logs (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.SpeciesID, rec.TeamID, rec.CampaignID,
		lat, lng, acc,
		rec.HoleCount, rec.SeedsPerHole, rec.Notes,
		rec.Photo, rec.PhotoURL, rec.OwnerID, rec.Synced, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert sowing record: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.SowingRecord, error) {
	var rec models.SowingRecord
	var lat, lng, acc sql.NullFloat64
	var photo, photoURL, ownerID sql.NullString

	err := s.Scan(&rec.ID, &rec.SpeciesID, &rec.TeamID, &rec.CampaignID,
		&lat, &lng, &acc,
		&rec.HoleCount, &rec.SeedsPerHole, &rec.Notes,
		&photo, &photoURL, &ownerID, &rec.Synced, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		rec.Location = &models.Location{Lat: lat.Float64, Lng: lng.Float64, Acc: acc.Float64}
	}
	if photo.Valid {
		rec.Photo = &photo.String
	}
	if photoURL.Valid {
		rec.PhotoURL = &photoURL.String
	}
	if ownerID.Valid {
		rec.OwnerID = &ownerID.String
	}
	return &rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.SowingRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM sowing_logs WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sowing record: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) MarkSynced(ctx context.Context, id, photoURL string) error {
	return r.update(ctx, id,
		`UPDATE sowing_logs SET photo_url = $1, synced = TRUE WHERE id = $2`, photoURL, id)
}

func (r *PostgresRepository) SetPhotoURL(ctx context.Context, id, photoURL string) error {
	return r.update(ctx, id,
		`UPDATE sowing_logs SET photo_url = $1 WHERE id = $2`, photoURL, id)
}

func (r *PostgresRepository) SetOwner(ctx context.Context, id, userID string) error {
	return r.update(ctx, id,
		`UPDATE sowing_logs SET owner_id = $1 WHERE id = $2`, userID, id)
}

func (r *PostgresRepository) ClearPhoto(ctx context.Context, id string) error {
	// photo_url guard: never clear the only remaining copy of the photo.
	return r.update(ctx, id,
		`UPDATE sowing_logs SET photo = NULL WHERE id = $1 AND photo_url IS NOT NULL`, id)
}

func (r *PostgresRepository) update(ctx context.Context, id, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update sowing record %s: %w", id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("sowing record %s: %w", id, common.ErrorNotFound)
	}
	return nil
}

func (r *PostgresRepository) ListOrphans(ctx context.Context) ([]models.SowingRecord, error) {
	return r.list(ctx, `SELECT `+recordColumns+` FROM sowing_logs WHERE owner_id IS NULL ORDER BY created_at`)
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, userID string) ([]models.SowingRecord, error) {
	return r.list(ctx, `SELECT `+recordColumns+` FROM sowing_logs WHERE owner_id = $1 ORDER BY created_at`, userID)
}

func (r *PostgresRepository) ListPendingMigration(ctx context.Context) ([]models.SowingRecord, error) {
	return r.list(ctx, `SELECT `+recordColumns+` FROM sowing_logs
		WHERE photo IS NOT NULL AND photo_url IS NULL ORDER BY created_at`)
}

func (r *PostgresRepository) ListCleanable(ctx context.Context) ([]models.SowingRecord, error) {
	return r.list(ctx, `SELECT `+recordColumns+` FROM sowing_logs
		WHERE photo IS NOT NULL AND photo_url IS NOT NULL ORDER BY created_at`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.SowingRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select sowing records: %w", err)
	}
	defer rows.Close()

	var result []models.SowingRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
