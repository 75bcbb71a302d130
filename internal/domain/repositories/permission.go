package repositories

import (
	"context"

	"coscribe/internal/domain/models"
)

// PermissionRepository persists standing access grants.
type PermissionRepository interface {
	Create(ctx context.Context, p *models.Permission) error
	GetByID(ctx context.Context, id string) (*models.Permission, error)
	// GetForUserAndDocument returns the grant for (user, document) or
	// ErrNotFound. With legacy duplicate rows the widest grant wins.
	GetForUserAndDocument(ctx context.Context, userID, documentID string) (*models.Permission, error)
	ListByDocument(ctx context.Context, documentID string) ([]models.Permission, error)
	UpdateAccessType(ctx context.Context, id string, accessType models.AccessType) error
	Delete(ctx context.Context, id string) error
}
