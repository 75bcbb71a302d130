package services

import (
	"context"

	"coscribe/internal/domain/models"
)

// DocumentService handles document business logic.
type DocumentService interface {
	// CreateDocument creates a document owned by userID.
	CreateDocument(ctx context.Context, userID string, req *CreateDocumentRequest) (*models.Document, error)

	// GetDocument returns the document for a reader. While the document has
	// live subscribers the content comes from the transient cache, otherwise
	// from the durable store; Source reports which.
	GetDocument(ctx context.Context, userID, documentID string) (*models.DocumentRead, error)

	// ListDocuments returns documents userID created or holds a permission on.
	ListDocuments(ctx context.Context, userID string) ([]models.DocumentSummary, error)

	// ListRecent returns the most recently updated accessible documents.
	ListRecent(ctx context.Context, userID string) ([]models.DocumentSummary, error)

	// UserActivity returns created/shared counts for the dashboard.
	UserActivity(ctx context.Context, userID string) (*models.UserActivity, error)

	// UpdateDocument saves title and/or durable content. Requires write
	// access; a content save drops the transient cache so live viewers
	// re-hydrate from the durable store.
	UpdateDocument(ctx context.Context, userID, documentID string, req *UpdateDocumentRequest) (*models.Document, error)

	// DeleteDocument removes the document and everything under it. Creator only.
	DeleteDocument(ctx context.Context, userID, documentID string) error
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title   string       `json:"title"`
	Content models.Delta `json:"content"`
}

// UpdateDocumentRequest represents a document update request
type UpdateDocumentRequest struct {
	Title   *string       `json:"title,omitempty"`
	Content *models.Delta `json:"content,omitempty"`
}
