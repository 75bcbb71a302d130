package services

import (
	"context"

	"coscribe/internal/domain/models"
)

// AccessGate is the authorization policy for documents. Every mutating
// operation in the system consults it before touching persisted or transient
// state; a false answer means the caller rejects with ErrForbidden and
// performs no side effect.
type AccessGate interface {
	// CanRead: creator, or any permission row on the document.
	CanRead(ctx context.Context, userID, documentID string) (bool, error)

	// CanWrite: creator, or an editor permission.
	CanWrite(ctx context.Context, userID, documentID string) (bool, error)

	// CanShare: creator only. Covers granting permissions and sending requests.
	CanShare(ctx context.Context, userID, documentID string) (bool, error)

	// CanVersion: creator or editor, mirroring CanWrite.
	CanVersion(ctx context.Context, userID, documentID string) (bool, error)

	// CanManagePermission: creator of the permission's document only.
	CanManagePermission(ctx context.Context, userID string, p *models.Permission) (bool, error)

	// CanManageVersion: the version's own creator only - intentionally
	// narrower than CanWrite on the document.
	CanManageVersion(ctx context.Context, userID string, v *models.DocumentVersion) (bool, error)
}
