package services

import (
	"context"

	"coscribe/internal/domain/models"
)

// UserService exposes account reads for the sharing UI.
type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// LookupByEmail resolves an email to a user, for addressing invitations.
	LookupByEmail(ctx context.Context, email string) (*models.User, error)
}
