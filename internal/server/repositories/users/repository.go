package users

import (
	"context"

	"github.com/radarnarcisista/cartaselo/internal/server/models"
)

type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	// Returns common.ErrAlreadyExists when the username is taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByLogin looks a user up by username, or common.ErrNotFound.
	GetByLogin(ctx context.Context, userName string) (*models.User, error)
}
