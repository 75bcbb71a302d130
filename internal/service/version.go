package service

import (
	"context"
	"fmt"
	"log/slog"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
	"coscribe/internal/domain/services"
)

// versionService implements the VersionService interface
type versionService struct {
	versionRepo repositories.VersionRepository
	docRepo     repositories.DocumentRepository
	gate        services.AccessGate
	cache       TransientCache
	logger      *slog.Logger
}

// NewVersionService creates a new version service
func NewVersionService(
	versionRepo repositories.VersionRepository,
	docRepo repositories.DocumentRepository,
	gate services.AccessGate,
	cache TransientCache,
	logger *slog.Logger,
) services.VersionService {
	return &versionService{
		versionRepo: versionRepo,
		docRepo:     docRepo,
		gate:        gate,
		cache:       cache,
		logger:      logger,
	}
}

// ListVersions returns version metadata, version_number ascending
func (s *versionService) ListVersions(ctx context.Context, userID, documentID string) ([]models.VersionSummary, error) {
	ok, err := s.gate.CanRead(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("list versions of %s: %w", documentID, domain.ErrForbidden)
	}

	return s.versionRepo.ListByDocument(ctx, documentID)
}

// GetVersion returns a full snapshot
func (s *versionService) GetVersion(ctx context.Context, userID, versionID string) (*models.DocumentVersion, error) {
	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanRead(ctx, userID, v.DocumentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("read version %s: %w", versionID, domain.ErrForbidden)
	}

	return v, nil
}

// CreateVersion snapshots content. VersionNumber 0 lets the store assign the
// next number atomically; a pinned duplicate yields ErrConflict - exactly one
// of two racing creators wins.
func (s *versionService) CreateVersion(ctx context.Context, userID, documentID string, req *services.CreateVersionRequest) (*models.DocumentVersion, error) {
	if req.Content.IsEmpty() {
		return nil, fmt.Errorf("%w: version content must not be empty", domain.ErrValidation)
	}
	if req.VersionNumber < 0 {
		return nil, fmt.Errorf("%w: version_number must be positive", domain.ErrValidation)
	}

	ok, err := s.gate.CanVersion(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("create version of %s: %w", documentID, domain.ErrForbidden)
	}

	v := &models.DocumentVersion{
		DocumentID:        documentID,
		Content:           req.Content,
		VersionNumber:     req.VersionNumber,
		CreatedBy:         userID,
		ChangeDescription: req.ChangeDescription,
	}

	if err := s.versionRepo.Create(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("version created",
		"document_id", documentID,
		"version_number", v.VersionNumber,
		"user_id", userID,
	)
	return v, nil
}

// UpdateVersion edits content/description. The version's own creator only -
// intentionally narrower than write access on the document.
func (s *versionService) UpdateVersion(ctx context.Context, userID, versionID string, req *services.UpdateVersionRequest) (*models.DocumentVersion, error) {
	if req.Content == nil && req.ChangeDescription == nil {
		return nil, fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if req.Content != nil && req.Content.IsEmpty() {
		return nil, fmt.Errorf("%w: version content must not be empty", domain.ErrValidation)
	}

	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanManageVersion(ctx, userID, v)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update version %s: %w", versionID, domain.ErrForbidden)
	}

	if req.Content != nil {
		v.Content = *req.Content
	}
	if req.ChangeDescription != nil {
		v.ChangeDescription = *req.ChangeDescription
	}

	if err := s.versionRepo.Update(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// DeleteVersion removes a snapshot. The version's own creator only.
func (s *versionService) DeleteVersion(ctx context.Context, userID, versionID string) error {
	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return err
	}

	ok, err := s.gate.CanManageVersion(ctx, userID, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("delete version %s: %w", versionID, domain.ErrForbidden)
	}

	return s.versionRepo.Delete(ctx, versionID)
}

// Diff compares two snapshots of the same document structurally. Comparing a
// version to itself yields an empty change list.
func (s *versionService) Diff(ctx context.Context, userID, documentID, versionID1, versionID2 string) ([]models.ChangeRecord, error) {
	ok, err := s.gate.CanRead(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("compare versions of %s: %w", documentID, domain.ErrForbidden)
	}

	v1, err := s.versionRepo.GetByID(ctx, versionID1)
	if err != nil {
		return nil, err
	}
	v2, err := s.versionRepo.GetByID(ctx, versionID2)
	if err != nil {
		return nil, err
	}
	if v1.DocumentID != documentID || v2.DocumentID != documentID {
		return nil, fmt.Errorf("version does not belong to document %s: %w", documentID, domain.ErrNotFound)
	}

	return diffOps(v1.Content.Ops, v2.Content.Ops), nil
}

// Restore overwrites the document's durable content with the snapshot's
// content verbatim. No new version row is created; the transient cache is
// dropped so live viewers re-hydrate.
func (s *versionService) Restore(ctx context.Context, userID, documentID, versionID string) (*models.Document, error) {
	ok, err := s.gate.CanWrite(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("restore document %s: %w", documentID, domain.ErrForbidden)
	}

	v, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v.DocumentID != documentID {
		return nil, fmt.Errorf("version %s does not belong to document %s: %w", versionID, documentID, domain.ErrNotFound)
	}

	if err := s.docRepo.UpdateContent(ctx, documentID, v.Content); err != nil {
		return nil, err
	}
	s.cache.Invalidate(documentID)

	s.logger.Info("document restored",
		"document_id", documentID,
		"version_number", v.VersionNumber,
		"user_id", userID,
	)
	return s.docRepo.GetByID(ctx, documentID)
}
