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

// PostgresPermissionRepository implements the PermissionRepository interface
type PostgresPermissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPermissionRepository creates a new permission repository
func NewPermissionRepository(config *RepositoryConfig) repositories.PermissionRepository {
	return &PostgresPermissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create inserts a grant
func (r *PostgresPermissionRepository) Create(ctx context.Context, p *models.Permission) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, document_id, access_type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, r.tables.Permissions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		p.UserID,
		p.DocumentID,
		p.AccessType,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("user or document: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("create permission: %w", err)
	}

	return nil
}

// GetByID retrieves a grant
func (r *PostgresPermissionRepository) GetByID(ctx context.Context, id string) (*models.Permission, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, document_id, access_type, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Permissions)

	var p models.Permission
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.UserID, &p.DocumentID, &p.AccessType, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return &p, nil
}

// GetForUserAndDocument returns the grant for (user, document). Editor sorts
// before viewer so a legacy duplicate pair resolves to the wider grant.
func (r *PostgresPermissionRepository) GetForUserAndDocument(ctx context.Context, userID, documentID string) (*models.Permission, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, document_id, access_type, created_at, updated_at
		FROM %s
		WHERE user_id = $1 AND document_id = $2
		ORDER BY access_type ASC
		LIMIT 1
	`, r.tables.Permissions)

	var p models.Permission
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, documentID).Scan(
		&p.ID, &p.UserID, &p.DocumentID, &p.AccessType, &p.CreatedAt, &p.UpdatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("permission for user %s on document %s: %w", userID, documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get permission: %w", err)
	}

	return &p, nil
}

// ListByDocument lists all grants on a document
func (r *PostgresPermissionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Permission, error) {
	query := fmt.Sprintf(`
		SELECT id, user_id, document_id, access_type, created_at, updated_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at ASC
	`, r.tables.Permissions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	perms := []models.Permission{}
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.UserID, &p.DocumentID, &p.AccessType, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan permission row: %w", err)
		}
		perms = append(perms, p)
	}

	return perms, rows.Err()
}

// UpdateAccessType changes a grant's level
func (r *PostgresPermissionRepository) UpdateAccessType(ctx context.Context, id string, accessType models.AccessType) error {
	query := fmt.Sprintf(`
		UPDATE %s SET access_type = $2, updated_at = now() WHERE id = $1
	`, r.tables.Permissions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, accessType)
	if err != nil {
		return fmt.Errorf("update permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a grant
func (r *PostgresPermissionRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Permissions)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("permission %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
