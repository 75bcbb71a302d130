package services

import (
	"context"

	"coscribe/internal/domain/models"
)

// VersionService handles snapshot history for documents.
type VersionService interface {
	// ListVersions returns version metadata, version_number ascending.
	ListVersions(ctx context.Context, userID, documentID string) ([]models.VersionSummary, error)

	// GetVersion returns a full snapshot.
	GetVersion(ctx context.Context, userID, versionID string) (*models.DocumentVersion, error)

	// CreateVersion snapshots content. Requires CanVersion. VersionNumber 0
	// lets the store assign the next number atomically; a pinned number that
	// is already taken yields ErrConflict.
	CreateVersion(ctx context.Context, userID, documentID string, req *CreateVersionRequest) (*models.DocumentVersion, error)

	// UpdateVersion edits content/description of a snapshot. The version's
	// own creator only.
	UpdateVersion(ctx context.Context, userID, versionID string, req *UpdateVersionRequest) (*models.DocumentVersion, error)

	// DeleteVersion removes a snapshot. The version's own creator only.
	DeleteVersion(ctx context.Context, userID, versionID string) error

	// Diff compares two snapshots of the same document structurally.
	Diff(ctx context.Context, userID, documentID, versionID1, versionID2 string) ([]models.ChangeRecord, error)

	// Restore overwrites the document's durable content with the snapshot's
	// content verbatim. Requires CanWrite; creates no new version row.
	Restore(ctx context.Context, userID, documentID, versionID string) (*models.Document, error)
}

// CreateVersionRequest represents a snapshot creation request
type CreateVersionRequest struct {
	Content           models.Delta `json:"content"`
	ChangeDescription string       `json:"change_description"`
	VersionNumber     int          `json:"version_number,omitempty"` // 0 = store assigns
}

// UpdateVersionRequest represents a snapshot edit request
type UpdateVersionRequest struct {
	Content           *models.Delta `json:"content,omitempty"`
	ChangeDescription *string       `json:"change_description,omitempty"`
}
