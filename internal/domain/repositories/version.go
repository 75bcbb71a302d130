package repositories

import (
	"context"

	"coscribe/internal/domain/models"
)

// VersionRepository persists immutable document snapshots.
type VersionRepository interface {
	// Create inserts the snapshot. A zero VersionNumber is assigned by the
	// store (current max for the document plus one, atomically). A non-zero
	// number is inserted as given and yields ErrConflict if taken.
	Create(ctx context.Context, v *models.DocumentVersion) error
	GetByID(ctx context.Context, id string) (*models.DocumentVersion, error)
	// ListByDocument returns version metadata ordered by version_number ascending.
	ListByDocument(ctx context.Context, documentID string) ([]models.VersionSummary, error)
	// Update replaces content and/or change description of an existing version.
	Update(ctx context.Context, v *models.DocumentVersion) error
	Delete(ctx context.Context, id string) error
}
