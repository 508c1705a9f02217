// Package users reads user accounts from the remote document store.
// Account creation and authentication live outside this subsystem.
package users

import (
	"context"

	"github.com/resiembra/resiembra/internal/models"
)

type Repository interface {
	// GetByID returns a user or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
