package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
	"coscribe/internal/domain/services"
)

const maxTitleLength = 255

// TransientCache is the hub-owned in-flight content for documents with live
// subscribers. It is a cache, never authoritative; the durable store wins
// once no one is editing.
type TransientCache interface {
	Snapshot(documentID string) (models.Delta, bool)
	Invalidate(documentID string)
}

// documentService implements the DocumentService interface
type documentService struct {
	docRepo repositories.DocumentRepository
	gate    services.AccessGate
	cache   TransientCache
	logger  *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	gate services.AccessGate,
	cache TransientCache,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo: docRepo,
		gate:    gate,
		cache:   cache,
		logger:  logger,
	}
}

// CreateDocument creates a document owned by userID
func (s *documentService) CreateDocument(ctx context.Context, userID string, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc := &models.Document{
		Title:     req.Title,
		Content:   req.Content,
		CreatedBy: userID,
	}
	if doc.Content.Ops == nil {
		doc.Content.Ops = []models.Op{}
	}

	if err := s.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created", "document_id", doc.ID, "user_id", userID)
	return doc, nil
}

// GetDocument returns the document, serving in-flight content from the
// transient cache while the document has live subscribers.
func (s *documentService) GetDocument(ctx context.Context, userID, documentID string) (*models.DocumentRead, error) {
	ok, err := s.gate.CanRead(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("read document %s: %w", documentID, domain.ErrForbidden)
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	read := &models.DocumentRead{Document: *doc, Source: models.SourcePostgres}
	if cached, ok := s.cache.Snapshot(documentID); ok {
		read.Content = cached
		read.Source = models.SourceCache
	}

	return read, nil
}

// ListDocuments returns documents userID created or holds a permission on
func (s *documentService) ListDocuments(ctx context.Context, userID string) ([]models.DocumentSummary, error) {
	return s.docRepo.ListForUser(ctx, userID)
}

// ListRecent returns the 5 most recently updated accessible documents
func (s *documentService) ListRecent(ctx context.Context, userID string) ([]models.DocumentSummary, error) {
	return s.docRepo.ListRecentForUser(ctx, userID, 5)
}

// UserActivity returns created/shared counts
func (s *documentService) UserActivity(ctx context.Context, userID string) (*models.UserActivity, error) {
	return s.docRepo.CountActivity(ctx, userID)
}

// UpdateDocument saves title and/or durable content. A content save drops the
// transient cache so live viewers re-hydrate from the store.
func (s *documentService) UpdateDocument(ctx context.Context, userID, documentID string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if req.Title == nil && req.Content == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if req.Title != nil {
		if err := validation.Validate(*req.Title, validation.Required, validation.Length(1, maxTitleLength)); err != nil {
			return nil, fmt.Errorf("%w: title: %v", domain.ErrValidation, err)
		}
	}

	ok, err := s.gate.CanWrite(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update document %s: %w", documentID, domain.ErrForbidden)
	}

	if req.Title != nil {
		if err := s.docRepo.UpdateTitle(ctx, documentID, *req.Title); err != nil {
			return nil, err
		}
	}
	if req.Content != nil {
		if err := s.docRepo.UpdateContent(ctx, documentID, *req.Content); err != nil {
			return nil, err
		}
		// Durable state just became current; stale in-flight content must not
		// shadow it.
		s.cache.Invalidate(documentID)
	}

	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document updated", "document_id", documentID, "user_id", userID)
	return doc, nil
}

// DeleteDocument removes the document; versions, permissions, and requests
// cascade. Creator only.
func (s *documentService) DeleteDocument(ctx context.Context, userID, documentID string) error {
	ok, err := s.gate.CanShare(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete document %s: %w", documentID, domain.ErrForbidden)
	}

	if err := s.docRepo.Delete(ctx, documentID); err != nil {
		return err
	}

	s.cache.Invalidate(documentID)
	s.logger.Info("document deleted", "document_id", documentID, "user_id", userID)
	return nil
}
