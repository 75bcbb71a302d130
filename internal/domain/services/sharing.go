package services

import (
	"context"

	"coscribe/internal/domain/models"
)

// PermissionService manages standing access grants.
type PermissionService interface {
	// GrantPermission creates a grant. Document creator only; a second grant
	// for the same (user, document) yields ErrConflict.
	GrantPermission(ctx context.Context, userID string, req *GrantPermissionRequest) (*models.Permission, error)

	// ListPermissions lists grants on a document. Creator only.
	ListPermissions(ctx context.Context, userID, documentID string) ([]models.Permission, error)

	// UpdatePermission changes a grant's access type. Document creator only.
	UpdatePermission(ctx context.Context, userID, permissionID string, accessType models.AccessType) (*models.Permission, error)

	// RevokePermission deletes a grant. Document creator only.
	RevokePermission(ctx context.Context, userID, permissionID string) error
}

// GrantPermissionRequest represents a permission grant request
type GrantPermissionRequest struct {
	UserID     string            `json:"user_id"`
	DocumentID string            `json:"document_id"`
	AccessType models.AccessType `json:"access_type"`
}

// RequestService manages pending share invitations.
type RequestService interface {
	// SendRequest invites a user (by email) to a document. Creator only; a
	// pending invitation for the same (user, document) yields ErrConflict.
	SendRequest(ctx context.Context, userID string, req *SendRequestRequest) (*models.Request, error)

	// ListRequests returns invitations addressed to userID.
	ListRequests(ctx context.Context, userID string) ([]models.Request, error)

	// AcceptRequest converts the invitation into a permission and deletes it,
	// in one transaction. Only the invited user may accept.
	AcceptRequest(ctx context.Context, userID, requestID string) (*models.Permission, error)

	// DeclineRequest deletes the invitation. The invited user or the
	// document's creator may decline/revoke.
	DeclineRequest(ctx context.Context, userID, requestID string) error
}

// SendRequestRequest represents a share invitation
type SendRequestRequest struct {
	Email      string            `json:"email"`
	DocumentID string            `json:"document_id"`
	Permission models.AccessType `json:"permission"`
}
