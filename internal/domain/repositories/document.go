package repositories

import (
	"context"

	"coscribe/internal/domain/models"
)

// DocumentRepository persists the durable document rows. Deleting a document
// cascades to its versions, permissions, and requests at the schema level.
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	// ListForUser returns documents the user created or holds a permission on,
	// most recently updated first.
	ListForUser(ctx context.Context, userID string) ([]models.DocumentSummary, error)
	// ListRecentForUser is ListForUser capped at limit rows.
	ListRecentForUser(ctx context.Context, userID string, limit int) ([]models.DocumentSummary, error)
	UpdateTitle(ctx context.Context, id, title string) error
	UpdateContent(ctx context.Context, id string, content models.Delta) error
	Delete(ctx context.Context, id string) error
	// CountActivity returns how many documents the user created and how many
	// are shared with them through permissions.
	CountActivity(ctx context.Context, userID string) (*models.UserActivity, error)
}
