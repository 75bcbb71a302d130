package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
	"coscribe/internal/domain/services"
)

// permissionService implements the PermissionService interface
type permissionService struct {
	permRepo repositories.PermissionRepository
	gate     services.AccessGate
	logger   *slog.Logger
}

// NewPermissionService creates a new permission service
func NewPermissionService(
	permRepo repositories.PermissionRepository,
	gate services.AccessGate,
	logger *slog.Logger,
) services.PermissionService {
	return &permissionService{
		permRepo: permRepo,
		gate:     gate,
		logger:   logger,
	}
}

// GrantPermission creates a grant. Creator only; one grant per (user, document).
func (s *permissionService) GrantPermission(ctx context.Context, userID string, req *services.GrantPermissionRequest) (*models.Permission, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.UserID, validation.Required),
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.AccessType, validation.Required, validation.In(models.AccessViewer, models.AccessEditor)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ok, err := s.gate.CanShare(ctx, userID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("grant permission on %s: %w", req.DocumentID, domain.ErrForbidden)
	}

	// The table has no unique index on (user, document); the check here is
	// what keeps duplicates out.
	existing, err := s.permRepo.GetForUserAndDocument(ctx, req.UserID, req.DocumentID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("user %s already has access to document %s", req.UserID, req.DocumentID),
			ResourceType: "permission",
			ResourceID:   existing.ID,
		}
	}

	perm := &models.Permission{
		UserID:     req.UserID,
		DocumentID: req.DocumentID,
		AccessType: req.AccessType,
	}
	if err := s.permRepo.Create(ctx, perm); err != nil {
		return nil, err
	}

	s.logger.Info("permission granted",
		"document_id", req.DocumentID,
		"user_id", req.UserID,
		"access_type", req.AccessType,
	)
	return perm, nil
}

// ListPermissions lists grants on a document. Creator only.
func (s *permissionService) ListPermissions(ctx context.Context, userID, documentID string) ([]models.Permission, error) {
	ok, err := s.gate.CanShare(ctx, userID, documentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("list permissions on %s: %w", documentID, domain.ErrForbidden)
	}

	return s.permRepo.ListByDocument(ctx, documentID)
}

// UpdatePermission changes a grant's access type. Document creator only.
func (s *permissionService) UpdatePermission(ctx context.Context, userID, permissionID string, accessType models.AccessType) (*models.Permission, error) {
	if !accessType.Valid() {
		return nil, fmt.Errorf("%w: invalid access type %q", domain.ErrValidation, accessType)
	}

	perm, err := s.permRepo.GetByID(ctx, permissionID)
	if err != nil {
		return nil, err
	}

	ok, err := s.gate.CanManagePermission(ctx, userID, perm)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update permission %s: %w", permissionID, domain.ErrForbidden)
	}

	if err := s.permRepo.UpdateAccessType(ctx, permissionID, accessType); err != nil {
		return nil, err
	}

	perm.AccessType = accessType
	return perm, nil
}

// RevokePermission deletes a grant. Document creator only.
func (s *permissionService) RevokePermission(ctx context.Context, userID, permissionID string) error {
	perm, err := s.permRepo.GetByID(ctx, permissionID)
	if err != nil {
		return err
	}

	ok, err := s.gate.CanManagePermission(ctx, userID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("revoke permission %s: %w", permissionID, domain.ErrForbidden)
	}

	if err := s.permRepo.Delete(ctx, permissionID); err != nil {
		return err
	}

	s.logger.Info("permission revoked",
		"permission_id", permissionID,
		"document_id", perm.DocumentID,
		"user_id", perm.UserID,
	)
	return nil
}
