package campaigns

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/resiembra/resiembra/internal/common"
	"github.com/resiembra/resiembra/internal/dbx"
	"github.com/resiembra/resiembra/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM campaigns WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}

	c.Participants, err = r.Participants(ctx, id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, campaignID, userID string) error {
	query := `INSERT INTO campaign_participants (campaign_id, user_id)
		VALUES ($1, $2) ON CONFLICT (campaign_id, user_id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, campaignID, userID)
	if err != nil {
		return fmt.Errorf("failed to add participant: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Participants(ctx context.Context, campaignID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id FROM campaign_participants WHERE campaign_id = $1 ORDER BY user_id`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to select participants: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		result = append(result, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
