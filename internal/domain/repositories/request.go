package repositories

import (
	"context"

	"coscribe/internal/domain/models"
)

// RequestRepository persists pending share invitations.
type RequestRepository interface {
	Create(ctx context.Context, r *models.Request) error
	GetByID(ctx context.Context, id string) (*models.Request, error)
	ListByUser(ctx context.Context, userID string) ([]models.Request, error)
	// ExistsForUserAndDocument reports whether a pending invitation already
	// targets (user, document).
	ExistsForUserAndDocument(ctx context.Context, userID, documentID string) (bool, error)
	Delete(ctx context.Context, id string) error
}
