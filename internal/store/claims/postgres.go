package claims

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/models"
)

// PostgresRepository implements Repository over a DBTX. The logIds and
// campaignIds lists are stored as JSON text, matching the historical
// document shape.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode id list: %w", err)
	}
	return string(b), nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.ClaimRequest) error {
	logIDs, err := encodeIDs(c.LogIDs)
	if err != nil {
		return err
	}
	campaignIDs, err := encodeIDs(c.CampaignIDs)
	if err != nil {
		return err
	}

	query := `INSERT INTO claim_requests (id, user_id, log_ids, campaign_ids, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = r.db.ExecContext(ctx, query, c.ID, c.UserID, logIDs, campaignIDs, string(c.Status), c.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert claim request: %w", err)
	}
	return nil
}

func scanClaim(s interface{ Scan(dest ...any) error }) (*models.ClaimRequest, error) {
	var c models.ClaimRequest
	var logIDs, campaignIDs, status string

	if err := s.Scan(&c.ID, &c.UserID, &logIDs, &campaignIDs, &status, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(logIDs), &c.LogIDs); err != nil {
		return nil, fmt.Errorf("malformed logIds on claim %s: %w", c.ID, err)
	}
	if err := json.Unmarshal([]byte(campaignIDs), &c.CampaignIDs); err != nil {
		return nil, fmt.Errorf("malformed campaignIds on claim %s: %w", c.ID, err)
	}
	c.Status = models.ClaimStatus(status)
	return &c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.ClaimRequest, error) {
	query := `SELECT id, user_id, log_ids, campaign_ids, status, created_at
		FROM claim_requests WHERE id = $1`

	c, err := scanClaim(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim request: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, from, to models.ClaimStatus) error {
	query := `UPDATE claim_requests SET status = $1 WHERE id = $2 AND status = $3`

	res, err := r.db.ExecContext(ctx, query, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("failed to update claim status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("claim %s: %w", id, common.ErrClaimAlreadyDecided)
	}
	return nil
}

func (r *PostgresRepository) SetCampaignIDs(ctx context.Context, id string, campaignIDs []string) error {
	encoded, err := encodeIDs(campaignIDs)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE claim_requests SET campaign_ids = $1 WHERE id = $2`, encoded, id)
	if err != nil {
		return fmt.Errorf("failed to update claim campaigns: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status models.ClaimStatus) ([]models.ClaimRequest, error) {
	query := `SELECT id, user_id, log_ids, campaign_ids, status, created_at
		FROM claim_requests WHERE status = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to select claim requests: %w", err)
	}
	defer rows.Close()

	var result []models.ClaimRequest
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
