package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
	"coscribe/internal/domain/services"
)

// requestService implements the RequestService interface
type requestService struct {
	requestRepo repositories.RequestRepository
	permRepo    repositories.PermissionRepository
	docRepo     repositories.DocumentRepository
	userRepo    repositories.UserRepository
	gate        services.AccessGate
	txManager   repositories.TransactionManager
	logger      *slog.Logger
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo repositories.RequestRepository,
	permRepo repositories.PermissionRepository,
	docRepo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	gate services.AccessGate,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.RequestService {
	return &requestService{
		requestRepo: requestRepo,
		permRepo:    permRepo,
		docRepo:     docRepo,
		userRepo:    userRepo,
		gate:        gate,
		txManager:   txManager,
		logger:      logger,
	}
}

// SendRequest invites a user by email. Creator only; one pending invitation
// per (user, document).
func (s *requestService) SendRequest(ctx context.Context, userID string, req *services.SendRequestRequest) (*models.Request, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.DocumentID, validation.Required),
		validation.Field(&req.Permission, validation.Required, validation.In(models.AccessViewer, models.AccessEditor)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	ok, err := s.gate.CanShare(ctx, userID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("send request for %s: %w", req.DocumentID, domain.ErrForbidden)
	}

	target, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	doc, err := s.docRepo.GetByID(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.requestRepo.ExistsForUserAndDocument(ctx, target.ID, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.ConflictError{
			Message:      fmt.Sprintf("a request for %s on document %s is already pending", req.Email, req.DocumentID),
			ResourceType: "request",
		}
	}

	invitation := &models.Request{
		DocumentID:    req.DocumentID,
		UserID:        target.ID,
		Permission:    req.Permission,
		DocumentTitle: doc.Title,
	}
	if err := s.requestRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	s.logger.Info("share request sent",
		"document_id", req.DocumentID,
		"target_user_id", target.ID,
		"permission", req.Permission,
	)
	return invitation, nil
}

// ListRequests returns invitations addressed to userID
func (s *requestService) ListRequests(ctx context.Context, userID string) ([]models.Request, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// AcceptRequest converts the invitation into a permission and deletes it in
// one transaction. Only the invited user may accept; the request itself is
// not a capability.
func (s *requestService) AcceptRequest(ctx context.Context, userID, requestID string) (*models.Permission, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, fmt.Errorf("accept request %s: %w", requestID, domain.ErrForbidden)
	}

	perm := &models.Permission{
		UserID:     req.UserID,
		DocumentID: req.DocumentID,
		AccessType: req.Permission,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.permRepo.Create(txCtx, perm); err != nil {
			return err
		}
		return s.requestRepo.Delete(txCtx, requestID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("share request accepted",
		"request_id", requestID,
		"document_id", req.DocumentID,
		"user_id", userID,
	)
	return perm, nil
}

// DeclineRequest deletes the invitation. The invited user or the document's
// creator may decline/revoke.
func (s *requestService) DeclineRequest(ctx context.Context, userID, requestID string) error {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	if req.UserID != userID {
		creator, err := s.gate.CanShare(ctx, userID, req.DocumentID)
		if err != nil {
			return err
		}
		if !creator {
			return fmt.Errorf("decline request %s: %w", requestID, domain.ErrForbidden)
		}
	}

	return s.requestRepo.Delete(ctx, requestID)
}
