package repositories

import (
	"context"

	"coscribe/internal/domain/models"
)

// UserRepository reads account rows. Account creation and credential changes
// belong to the external auth service.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
