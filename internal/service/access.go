package service

import (
	"context"
	"errors"
	"log/slog"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
	"coscribe/internal/domain/services"
)

// accessGate implements the AccessGate interface. It is pure policy over the
// document and permission tables; callers translate a false answer into
// ErrForbidden and perform no side effects.
type accessGate struct {
	docRepo  repositories.DocumentRepository
	permRepo repositories.PermissionRepository
	logger   *slog.Logger
}

// NewAccessGate creates the authorization gate
func NewAccessGate(
	docRepo repositories.DocumentRepository,
	permRepo repositories.PermissionRepository,
	logger *slog.Logger,
) services.AccessGate {
	return &accessGate{
		docRepo:  docRepo,
		permRepo: permRepo,
		logger:   logger,
	}
}

// CanRead: creator, or any permission row
func (g *accessGate) CanRead(ctx context.Context, userID, documentID string) (bool, error) {
	doc, err := g.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	if doc.CreatedBy == userID {
		return true, nil
	}

	_, err = g.permRepo.GetForUserAndDocument(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanWrite: creator, or an editor permission
func (g *accessGate) CanWrite(ctx context.Context, userID, documentID string) (bool, error) {
	doc, err := g.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	if doc.CreatedBy == userID {
		return true, nil
	}

	perm, err := g.permRepo.GetForUserAndDocument(ctx, userID, documentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return perm.AccessType == models.AccessEditor, nil
}

// CanShare: creator only
func (g *accessGate) CanShare(ctx context.Context, userID, documentID string) (bool, error) {
	doc, err := g.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return false, err
	}
	return doc.CreatedBy == userID, nil
}

// CanVersion mirrors CanWrite
func (g *accessGate) CanVersion(ctx context.Context, userID, documentID string) (bool, error) {
	return g.CanWrite(ctx, userID, documentID)
}

// CanManagePermission: creator of the permission's document only
func (g *accessGate) CanManagePermission(ctx context.Context, userID string, p *models.Permission) (bool, error) {
	return g.CanShare(ctx, userID, p.DocumentID)
}

// CanManageVersion: the version's own creator only, not the document's
func (g *accessGate) CanManageVersion(ctx context.Context, userID string, v *models.DocumentVersion) (bool, error) {
	return v.CreatedBy == userID, nil
}
