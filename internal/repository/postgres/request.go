package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"coscribe/internal/domain"
	"coscribe/internal/domain/models"
	"coscribe/internal/domain/repositories"
)

// PostgresRequestRepository implements the RequestRepository interface
type PostgresRequestRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(config *RepositoryConfig) repositories.RequestRepository {
	return &PostgresRequestRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a pending invitation
func (r *PostgresRequestRepository) Create(ctx context.Context, req *models.Request) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, user_id, permission, document_title)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		req.DocumentID,
		req.UserID,
		req.Permission,
		req.DocumentTitle,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("user or document: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

// GetByID retrieves an invitation
func (r *PostgresRequestRepository) GetByID(ctx context.Context, id string) (*models.Request, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, permission, document_title, created_at
		FROM %s
		WHERE id = $1
	`, r.tables.Requests)

	var req models.Request
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.DocumentID, &req.UserID, &req.Permission, &req.DocumentTitle, &req.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get request: %w", err)
	}

	return &req, nil
}

// ListByUser returns invitations addressed to a user
func (r *PostgresRequestRepository) ListByUser(ctx context.Context, userID string) ([]models.Request, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, permission, document_title, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	reqs := []models.Request{}
	for rows.Next() {
		var req models.Request
		if err := rows.Scan(&req.ID, &req.DocumentID, &req.UserID, &req.Permission, &req.DocumentTitle, &req.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan request row: %w", err)
		}
		reqs = append(reqs, req)
	}

	return reqs, rows.Err()
}

// ExistsForUserAndDocument reports whether a pending invitation already targets
// (user, document)
func (r *PostgresRequestRepository) ExistsForUserAndDocument(ctx context.Context, userID, documentID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE user_id = $1 AND document_id = $2)
	`, r.tables.Requests)

	var exists bool
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID, documentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pending request: %w", err)
	}

	return exists, nil
}

// Delete removes an invitation (accept and decline both end here)
func (r *PostgresRequestRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Requests)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
