package users

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	var token sql.NullString

	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, push_token, admin FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.DisplayName, &token, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if token.Valid {
		u.PushToken = &token.String
	}
	return &u, nil
}
